package entity

import (
	"encoding/json"
	"fmt"
)

// BloodGroup is one of the eight ABO/Rh groups. The zero value is not a
// valid group; values outside the set can only be produced by ParseBloodGroup
// failing.
type BloodGroup struct {
	code string
}

var (
	BloodGroupAPositive  = BloodGroup{"A+"}
	BloodGroupANegative  = BloodGroup{"A-"}
	BloodGroupBPositive  = BloodGroup{"B+"}
	BloodGroupBNegative  = BloodGroup{"B-"}
	BloodGroupABPositive = BloodGroup{"AB+"}
	BloodGroupABNegative = BloodGroup{"AB-"}
	BloodGroupOPositive  = BloodGroup{"O+"}
	BloodGroupONegative  = BloodGroup{"O-"}
)

// BloodGroups lists every valid group in display order.
func BloodGroups() []BloodGroup {
	return []BloodGroup{
		BloodGroupAPositive, BloodGroupANegative,
		BloodGroupBPositive, BloodGroupBNegative,
		BloodGroupABPositive, BloodGroupABNegative,
		BloodGroupOPositive, BloodGroupONegative,
	}
}

// ParseBloodGroup maps the textual form ("O+", "AB-", ...) to a BloodGroup.
func ParseBloodGroup(s string) (BloodGroup, error) {
	for _, bg := range BloodGroups() {
		if bg.code == s {
			return bg, nil
		}
	}
	return BloodGroup{}, &InvalidFieldError{
		Field:  "blood_group",
		Reason: fmt.Sprintf("%q is not one of A+, A-, B+, B-, AB+, AB-, O+, O-", s),
	}
}

func (b BloodGroup) String() string {
	return b.code
}

func (b BloodGroup) IsZero() bool {
	return b.code == ""
}

func (b BloodGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.code)
}

func (b *BloodGroup) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBloodGroup(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
