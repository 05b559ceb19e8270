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

type EventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewEventRepository(db *gorm.DB) contract.EventRepository {
	return &EventRepositoryImpl{db: db, mapper: mapper.NewCatalogMapper()}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *entity.Event) error {
	m := r.mapper.EventToModel(event)
	if err := r.db.WithContext(ctx).Omit("Category").Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.EventToEntity(m)
	return nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event *entity.Event) error {
	m := r.mapper.EventToModel(event)
	if err := r.db.WithContext(ctx).Omit("Category").Save(m).Error; err != nil {
		return err
	}
	name := event.CategoryName
	*event = *r.mapper.EventToEntity(m)
	event.CategoryName = name
	return nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Event{}).Error
}

func (r *EventRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Event, error) {
	var m model.Event
	found, err := first(r.db.WithContext(ctx), &m, specs...)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.EventToEntity(&m), nil
}

func (r *EventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Event, error) {
	var models []*model.Event
	if err := applySpecifications(r.db.WithContext(ctx).Preload("Category"), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.EventsToEntities(models), nil
}

func (r *EventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count(r.db.WithContext(ctx), &model.Event{}, specs...)
}

func (r *EventRepositoryImpl) UpdateBookedCount(ctx context.Context, id uuid.UUID, bookedCount int) error {
	return r.db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", id).Update("booked_count", bookedCount).Error
}
