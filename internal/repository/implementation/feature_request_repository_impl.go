package implementation

import (
	"context"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/mapper"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/repository/contract"
	"ticket-marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeatureRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ModerationMapper
}

func NewFeatureRequestRepository(db *gorm.DB) contract.FeatureRequestRepository {
	return &FeatureRequestRepositoryImpl{db: db, mapper: mapper.NewModerationMapper()}
}

func (r *FeatureRequestRepositoryImpl) Create(ctx context.Context, request *entity.FeatureRequest) error {
	m := r.mapper.FeatureRequestToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.FeatureRequestToEntity(m)
	return nil
}

func (r *FeatureRequestRepositoryImpl) Update(ctx context.Context, request *entity.FeatureRequest) error {
	m := r.mapper.FeatureRequestToModel(request)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.FeatureRequestToEntity(m)
	return nil
}

func (r *FeatureRequestRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FeatureRequest{}).Error
}

func (r *FeatureRequestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureRequest, error) {
	var m model.FeatureRequest
	found, err := first(r.db.WithContext(ctx), &m, specs...)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.FeatureRequestToEntity(&m), nil
}

func (r *FeatureRequestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureRequest, error) {
	var models []*model.FeatureRequest
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.FeatureRequestsToEntities(models), nil
}

func (r *FeatureRequestRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count(r.db.WithContext(ctx), &model.FeatureRequest{}, specs...)
}
