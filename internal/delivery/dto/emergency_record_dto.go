package dto

import "time"

// Request DTOs

type CreateEmergencyRecordRequest struct {
	Name             string `json:"name" validate:"required,max=120"`
	Phone            string `json:"phone" validate:"required,max=32"`
	BloodGroup       string `json:"blood_group" validate:"required"`
	GuardianName     string `json:"guardian_name" validate:"required,max=120"`
	GuardianPhone    string `json:"guardian_phone" validate:"required,max=32"`
	Address          string `json:"address" validate:"required,max=500"`
	NationalIDNumber string `json:"national_id_number" validate:"required,max=64"`
}

// Response DTOs

// EmergencyRecordResponse is the full, private record.
type EmergencyRecordResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	BloodGroup       string    `json:"blood_group"`
	GuardianName     string    `json:"guardian_name"`
	GuardianPhone    string    `json:"guardian_phone"`
	Address          string    `json:"address"`
	NationalIDNumber string    `json:"national_id_number"`
	CreatedAt        time.Time `json:"created_at"`
}

// PublicProfileResponse is everything an unauthenticated scanner may see.
// Adding a field here publishes it to anyone holding a sticker.
type PublicProfileResponse struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	BloodGroup string `json:"blood_group"`
}

// Artifact is a generated binary download.
type Artifact struct {
	Data        []byte
	ContentType string
	Filename    string
}
