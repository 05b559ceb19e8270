package category

import (
	"context"
	"strings"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) List(ctx context.Context, uow unitofwork.UnitOfWork, q dto.PageQuery) ([]*entity.Category, int64, error) {
	q.Normalize()
	search := specification.Search{Fields: []string{"name", "description"}, Term: q.Search}

	total, err := uow.CategoryRepository().Count(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	items, err := uow.CategoryRepository().FindAll(ctx, search,
		specification.OrderBy{Field: "name"},
		specification.Page(q.Page, q.Limit),
	)
	return items, total, err
}

// Active lists every active category for the public event filters.
func (m *Manager) Active(ctx context.Context, uow unitofwork.UnitOfWork) ([]*entity.Category, error) {
	return uow.CategoryRepository().FindAll(ctx, specification.ActiveOnly{}, specification.OrderBy{Field: "name"})
}

func (m *Manager) Create(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CategoryRequest) (*entity.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := m.ensureUniqueName(ctx, uow, name, uuid.Nil); err != nil {
		return nil, err
	}

	now := time.Now()
	category := &entity.Category{
		Id:          uuid.New(),
		Name:        name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uow.CategoryRepository().Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (m *Manager) Update(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.CategoryRequest) (*entity.Category, error) {
	category, err := m.get(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := m.ensureUniqueName(ctx, uow, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = req.Description
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = time.Now()

	if err := uow.CategoryRepository().Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) error {
	if _, err := m.get(ctx, uow, id); err != nil {
		return err
	}
	return uow.CategoryRepository().Delete(ctx, id)
}

func (m *Manager) get(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Category, error) {
	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, serverutils.NotFound("Category not found")
	}
	return category, nil
}

func (m *Manager) ensureUniqueName(ctx context.Context, uow unitofwork.UnitOfWork, name string, self uuid.UUID) error {
	existing, err := uow.CategoryRepository().FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return err
	}
	if existing != nil && existing.Id != self {
		return serverutils.Conflict("Category with this name already exists")
	}
	return nil
}
