package memory

import (
	"context"
	"sort"
	"time"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifications exposes the store's inbox as a NotificationRepository.
func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepo{s: s}
}

type notificationRepo struct{ s *Store }

func (r *notificationRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

// newestFirst returns the user's notifications sorted by created_at desc.
func (r *notificationRepo) newestFirst(userID uuid.UUID, unreadOnly bool) []model.Notification {
	var out []model.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *notificationRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.newestFirst(userID, false)
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Notification{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *notificationRepo) GetUnreadByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.newestFirst(userID, true)
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *notificationRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.newestFirst(userID, true))), nil
}

func (r *notificationRepo) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		n := &r.s.notifications[i]
		if n.ID == notificationID && n.UserID == userID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (r *notificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := time.Now()
	for i := range r.s.notifications {
		item := &r.s.notifications[i]
		if item.UserID == userID && !item.IsRead {
			item.IsRead = true
			item.ReadAt = &now
			n++
		}
	}
	return n, nil
}

func (r *notificationRepo) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.notificationTypes[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func toUserModel(u entity.User) model.User {
	return model.User{Id: u.Id, Email: u.Email, FullName: u.FullName, Role: string(u.Role), Status: string(u.Status)}
}

func (r *notificationRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users.rows[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m := toUserModel(u)
	return &m, nil
}

func (r *notificationRepo) GetUsersByRole(ctx context.Context, role string) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.User
	for _, u := range r.s.users.rows {
		if string(u.Role) == role && u.Status == entity.UserStatusActive {
			out = append(out, toUserModel(u))
		}
	}
	return out, nil
}

func (r *notificationRepo) GetPreference(ctx context.Context, userID uuid.UUID) (*model.UserNotificationPreference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.preferences[userID]; ok {
		return &p, nil
	}
	return &model.UserNotificationPreference{UserID: userID, EmailEnabled: true}, nil
}
