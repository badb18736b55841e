package repository

import (
	"context"
	"errors"

	"lifesaver-qr/internal/domain/entity"
	domainRepo "lifesaver-qr/internal/domain/repository"
	"lifesaver-qr/pkg/fieldcrypt"

	"gorm.io/gorm"
)

type emergencyRecordRepository struct {
	db     *gorm.DB
	sealer fieldcrypt.Sealer
}

func NewEmergencyRecordRepository(db *gorm.DB, sealer fieldcrypt.Sealer) domainRepo.EmergencyRecordRepository {
	return &emergencyRecordRepository{db: db, sealer: sealer}
}

func (r *emergencyRecordRepository) Create(ctx context.Context, record *entity.EmergencyRecord) error {
	model, err := toModel(record, r.sealer)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *emergencyRecordRepository) FindByID(ctx context.Context, id string) (*entity.EmergencyRecord, error) {
	var model emergencyRecordModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.toEntity(r.sealer)
}

// AutoMigrate creates the records table for drivers without SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&emergencyRecordModel{})
}
