package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name       string `json:"name" validate:"required,max=5"`
	BloodGroup string `json:"blood_group" validate:"required,len=2"`
	Internal   string `json:"-" validate:"omitempty,min=2"`
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, NewValidator().Validate(&sample{Name: "Asha", BloodGroup: "O-"}))
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Name: "Asha Rao", BloodGroup: "AB+"})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"name":        "name must be at most 5 characters",
		"blood_group": "blood_group is invalid",
	}, v.FormatValidationErrors(err))
}

func TestFormatValidationErrors_Required(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{})
	require.Error(t, err)

	formatted := v.FormatValidationErrors(err)
	assert.Equal(t, "name is required", formatted["name"])
	assert.Equal(t, "blood_group is required", formatted["blood_group"])
}

func TestFormatValidationErrors_OtherErrors(t *testing.T) {
	assert.Empty(t, NewValidator().FormatValidationErrors(assert.AnError))
}
