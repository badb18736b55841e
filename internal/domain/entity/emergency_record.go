package entity

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidField is matched by every InvalidFieldError.
var ErrInvalidField = errors.New("invalid field")

// InvalidFieldError reports an input value that breaks a domain constraint.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// EmergencyRecord is the full, private emergency details of one person.
// It is created once and never updated.
type EmergencyRecord struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	BloodGroup       BloodGroup `json:"blood_group"`
	GuardianName     string     `json:"guardian_name"`
	GuardianPhone    string     `json:"guardian_phone"`
	Address          string     `json:"address"`
	NationalIDNumber string     `json:"national_id_number"`
	CreatedAt        time.Time  `json:"created_at"`
}

// EmergencyRecordInput carries every caller-supplied field of a record.
type EmergencyRecordInput struct {
	Name             string
	Phone            string
	BloodGroup       string
	GuardianName     string
	GuardianPhone    string
	Address          string
	NationalIDNumber string
}

// NewRecordID returns 128 random bits in the 36-character UUID text form.
// Unlike a v4 UUID no bits are spent on version and variant markers.
func NewRecordID() (string, error) {
	var id uuid.UUID
	if _, err := rand.Read(id[:]); err != nil {
		return "", fmt.Errorf("generate record id: %w", err)
	}
	return id.String(), nil
}

// NewEmergencyRecord validates input and builds a record with a fresh
// random identifier and a creation time of now.
func NewEmergencyRecord(input EmergencyRecordInput, now time.Time) (*EmergencyRecord, error) {
	required := []struct {
		field string
		value string
	}{
		{"name", input.Name},
		{"phone", input.Phone},
		{"guardian_name", input.GuardianName},
		{"guardian_phone", input.GuardianPhone},
		{"address", input.Address},
		{"national_id_number", input.NationalIDNumber},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &InvalidFieldError{Field: r.field, Reason: "is required"}
		}
	}

	bloodGroup, err := ParseBloodGroup(input.BloodGroup)
	if err != nil {
		return nil, err
	}

	id, err := NewRecordID()
	if err != nil {
		return nil, err
	}

	return &EmergencyRecord{
		ID:               id,
		Name:             input.Name,
		Phone:            input.Phone,
		BloodGroup:       bloodGroup,
		GuardianName:     input.GuardianName,
		GuardianPhone:    input.GuardianPhone,
		Address:          input.Address,
		NationalIDNumber: input.NationalIDNumber,
		CreatedAt:        now.UTC(),
	}, nil
}
