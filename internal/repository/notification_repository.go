package repository

import (
	"context"
	"errors"

	"ticket-marketplace-be/internal/model"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	// Inbox
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)

	// Registry and target resolution
	GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetUsersByRole(ctx context.Context, role string) ([]model.User, error)
	GetPreference(ctx context.Context, userID uuid.UUID) (*model.UserNotificationPreference, error)
}
