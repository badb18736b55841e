package repository

import (
	"context"

	"lifesaver-qr/internal/domain/entity"
)

// EmergencyRecordRepository stores records keyed by their opaque ID.
// FindByID returns (nil, nil) when no record exists.
type EmergencyRecordRepository interface {
	Create(ctx context.Context, record *entity.EmergencyRecord) error
	FindByID(ctx context.Context, id string) (*entity.EmergencyRecord, error)
}
