package user

import (
	"context"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	adminEvents "ticket-marketplace-be/pkg/admin/events"

	"github.com/google/uuid"
)

// Manager handles user-related admin operations
type Manager struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
}

func NewManager(logger logger.ILogger, publisher adminEvents.Publisher) *Manager {
	return &Manager{
		logger:    logger,
		publisher: publisher,
	}
}

// FindAll retrieves users with pagination and optional search
func (m *Manager) FindAll(ctx context.Context, uow unitofwork.UnitOfWork, req dto.AdminUserListRequest) ([]*entity.User, int64, error) {
	req.Normalize()

	filters := []specification.Specification{
		specification.ByRole{Role: req.Role},
		specification.ByStatus{Status: req.Status},
		specification.Search{Fields: []string{"full_name", "email"}, Term: req.Search},
	}

	total, err := uow.UserRepository().Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}

	users, err := uow.UserRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(req.Page, req.Limit),
	)...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (m *Manager) Get(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("User not found")
	}
	return user, nil
}

// UpdateStatus blocks or unblocks a user. Blocking revokes every refresh token.
func (m *Manager) UpdateStatus(ctx context.Context, uow unitofwork.UnitOfWork, adminId, userId uuid.UUID, status entity.UserStatus) (*entity.User, error) {
	if adminId == userId {
		return nil, serverutils.BadRequest("You cannot change your own status")
	}

	user, err := m.Get(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return user, nil
	}

	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return nil, err
	}
	user.Status = status
	user.UpdatedAt = time.Now()

	m.logger.Info("ADMIN", "User status changed", map[string]interface{}{
		"userId": userId.String(),
		"status": string(status),
		"by":     adminId.String(),
	})

	if status == entity.UserStatusBlocked {
		if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, userId); err != nil {
			return nil, err
		}
		m.publisher.PublishUserBlocked(ctx, userId, adminId, user.FullName)
	}
	return user, nil
}

// Delete removes a user
func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, adminId, userId uuid.UUID) error {
	if adminId == userId {
		return serverutils.BadRequest("You cannot delete your own account")
	}
	if _, err := m.Get(ctx, uow, userId); err != nil {
		return err
	}

	m.logger.Info("ADMIN", "Deleted User", map[string]interface{}{
		"userId": userId.String(),
		"by":     adminId.String(),
	})
	return uow.UserRepository().Delete(ctx, userId)
}
