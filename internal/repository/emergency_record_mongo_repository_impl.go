package repository

import (
	"context"
	"errors"

	"lifesaver-qr/internal/domain/entity"
	domainRepo "lifesaver-qr/internal/domain/repository"
	"lifesaver-qr/pkg/fieldcrypt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const EmergencyRecordCollection = "emergency_details"

type emergencyRecordMongoRepository struct {
	coll   *mongo.Collection
	sealer fieldcrypt.Sealer
}

func NewEmergencyRecordMongoRepository(coll *mongo.Collection, sealer fieldcrypt.Sealer) domainRepo.EmergencyRecordRepository {
	return &emergencyRecordMongoRepository{coll: coll, sealer: sealer}
}

func (r *emergencyRecordMongoRepository) Create(ctx context.Context, record *entity.EmergencyRecord) error {
	model, err := toModel(record, r.sealer)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, model)
	return err
}

func (r *emergencyRecordMongoRepository) FindByID(ctx context.Context, id string) (*entity.EmergencyRecord, error) {
	var model emergencyRecordModel
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return model.toEntity(r.sealer)
}
