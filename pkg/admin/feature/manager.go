package feature

import (
	"context"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	adminEvents "ticket-marketplace-be/pkg/admin/events"

	"github.com/google/uuid"
)

// Manager handles feature requests submitted by users
type Manager struct {
	publisher adminEvents.Publisher
}

func NewManager(publisher adminEvents.Publisher) *Manager {
	return &Manager{publisher: publisher}
}

func (m *Manager) Create(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req dto.CreateFeatureRequestRequest) (*entity.FeatureRequest, error) {
	now := time.Now()
	request := &entity.FeatureRequest{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.FeatureRequestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uow.FeatureRequestRepository().Create(ctx, request); err != nil {
		return nil, err
	}

	m.publisher.PublishFeatureRequestCreated(ctx, request.Id, userId, request.Title)
	return request, nil
}

// List pages through requests. A non-nil userId limits it to that user's own.
func (m *Manager) List(ctx context.Context, uow unitofwork.UnitOfWork, userId *uuid.UUID, req dto.FeatureRequestListRequest) ([]*entity.FeatureRequest, int64, error) {
	req.Normalize()

	filters := []specification.Specification{
		specification.ByStatus{Status: req.Status},
		specification.Search{Fields: []string{"title", "description"}, Term: req.Search},
	}
	if userId != nil {
		filters = append(filters, specification.UserOwnedBy{UserID: *userId})
	}

	total, err := uow.FeatureRequestRepository().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}
	items, err := uow.FeatureRequestRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(req.Page, req.Limit),
	)...)
	return items, total, err
}

func (m *Manager) UpdateStatus(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.UpdateFeatureRequestStatusRequest) (*entity.FeatureRequest, error) {
	request, err := m.get(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	changed := request.Status != entity.FeatureRequestStatus(req.Status)
	request.Status = entity.FeatureRequestStatus(req.Status)
	if req.AdminNote != "" {
		request.AdminNote = req.AdminNote
	}
	request.UpdatedAt = time.Now()

	if err := uow.FeatureRequestRepository().Update(ctx, request); err != nil {
		return nil, err
	}
	if changed {
		m.publisher.PublishFeatureRequestUpdated(ctx, request.Id, request.UserId, request.Title, req.Status)
	}
	return request, nil
}

func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) error {
	if _, err := m.get(ctx, uow, id); err != nil {
		return err
	}
	return uow.FeatureRequestRepository().Delete(ctx, id)
}

func (m *Manager) get(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.FeatureRequest, error) {
	request, err := uow.FeatureRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, serverutils.NotFound("Feature request not found")
	}
	return request, nil
}
