package converter

import (
	"lifesaver-qr/internal/delivery/dto"
	"lifesaver-qr/internal/domain/entity"
)

// CreateRequestToInput converts a CreateEmergencyRecordRequest DTO to the domain input
func CreateRequestToInput(req *dto.CreateEmergencyRecordRequest) entity.EmergencyRecordInput {
	return entity.EmergencyRecordInput{
		Name:             req.Name,
		Phone:            req.Phone,
		BloodGroup:       req.BloodGroup,
		GuardianName:     req.GuardianName,
		GuardianPhone:    req.GuardianPhone,
		Address:          req.Address,
		NationalIDNumber: req.NationalIDNumber,
	}
}

// EmergencyRecordToResponse converts an EmergencyRecord entity to the full EmergencyRecordResponse DTO
func EmergencyRecordToResponse(record *entity.EmergencyRecord) *dto.EmergencyRecordResponse {
	if record == nil {
		return nil
	}

	return &dto.EmergencyRecordResponse{
		ID:               record.ID,
		Name:             record.Name,
		Phone:            record.Phone,
		BloodGroup:       record.BloodGroup.String(),
		GuardianName:     record.GuardianName,
		GuardianPhone:    record.GuardianPhone,
		Address:          record.Address,
		NationalIDNumber: record.NationalIDNumber,
		CreatedAt:        record.CreatedAt,
	}
}

// RecordToPublicProfile projects a record onto the public allow-list.
// Only name, phone and blood group are copied; nothing else may leave here.
func RecordToPublicProfile(record *entity.EmergencyRecord) dto.PublicProfileResponse {
	return dto.PublicProfileResponse{
		Name:       record.Name,
		Phone:      record.Phone,
		BloodGroup: record.BloodGroup.String(),
	}
}
