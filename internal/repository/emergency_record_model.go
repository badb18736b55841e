package repository

import (
	"fmt"
	"time"

	"lifesaver-qr/internal/domain/entity"
	"lifesaver-qr/pkg/fieldcrypt"
)

// emergencyRecordModel is the stored shape of an EmergencyRecord, shared by
// the SQL and document backends. Guardian, address and national ID columns
// hold sealed values when a field key is configured.
type emergencyRecordModel struct {
	ID               string    `gorm:"column:id;type:varchar(36);primaryKey" bson:"_id"`
	Name             string    `gorm:"column:name;type:varchar(120);not null" bson:"name"`
	Phone            string    `gorm:"column:phone;type:varchar(32);not null" bson:"phone"`
	BloodGroup       string    `gorm:"column:blood_group;type:varchar(3);not null" bson:"blood_group"`
	GuardianName     string    `gorm:"column:guardian_name;type:text;not null" bson:"guardian_name"`
	GuardianPhone    string    `gorm:"column:guardian_phone;type:text;not null" bson:"guardian_phone"`
	Address          string    `gorm:"column:address;type:text;not null" bson:"address"`
	NationalIDNumber string    `gorm:"column:national_id_number;type:text;not null" bson:"national_id_number"`
	CreatedAt        time.Time `gorm:"column:created_at;not null" bson:"created_at"`
}

func (emergencyRecordModel) TableName() string {
	return "emergency_records"
}

func toModel(record *entity.EmergencyRecord, sealer fieldcrypt.Sealer) (*emergencyRecordModel, error) {
	model := &emergencyRecordModel{
		ID:         record.ID,
		Name:       record.Name,
		Phone:      record.Phone,
		BloodGroup: record.BloodGroup.String(),
		CreatedAt:  record.CreatedAt,
	}

	sensitive := []struct {
		dst *string
		src string
	}{
		{&model.GuardianName, record.GuardianName},
		{&model.GuardianPhone, record.GuardianPhone},
		{&model.Address, record.Address},
		{&model.NationalIDNumber, record.NationalIDNumber},
	}
	for _, f := range sensitive {
		sealed, err := sealer.Seal(f.src)
		if err != nil {
			return nil, fmt.Errorf("seal field: %w", err)
		}
		*f.dst = sealed
	}

	return model, nil
}

func (m *emergencyRecordModel) toEntity(sealer fieldcrypt.Sealer) (*entity.EmergencyRecord, error) {
	bloodGroup, err := entity.ParseBloodGroup(m.BloodGroup)
	if err != nil {
		return nil, fmt.Errorf("stored record %s: %w", m.ID, err)
	}

	record := &entity.EmergencyRecord{
		ID:         m.ID,
		Name:       m.Name,
		Phone:      m.Phone,
		BloodGroup: bloodGroup,
		CreatedAt:  m.CreatedAt.UTC(),
	}

	sensitive := []struct {
		dst *string
		src string
	}{
		{&record.GuardianName, m.GuardianName},
		{&record.GuardianPhone, m.GuardianPhone},
		{&record.Address, m.Address},
		{&record.NationalIDNumber, m.NationalIDNumber},
	}
	for _, f := range sensitive {
		plain, err := sealer.Open(f.src)
		if err != nil {
			return nil, fmt.Errorf("open sealed field of record %s: %w", m.ID, err)
		}
		*f.dst = plain
	}

	return record, nil
}
