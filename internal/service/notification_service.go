package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/mailer"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository"
	"ticket-marketplace-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationDelivery pushes a stored notification to connected clients.
// Implemented by the realtime hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// backlogLimit caps the unread items sent in a stream's init event.
const backlogLimit = 50

type NotificationService struct {
	repo     repository.NotificationRepository
	delivery NotificationDelivery
	email    mailer.IEmailService
	logger   logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, delivery NotificationDelivery, email mailer.IEmailService, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:     repo,
		delivery: delivery,
		email:    email,
		logger:   log,
	}
}

// Start subscribes the pipeline to every domain event on the bus.
func (s *NotificationService) Start(sub events.Subscriber) error {
	if err := sub.Subscribe(events.SubjectPrefix+">", "notif-service-worker", s.HandleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
	return nil
}

// HandleEvent turns one domain event into inbox entries and pushes.
// Unknown or inactive codes are skipped. BROADCAST is push-only.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	typeCode := events.TypeFromSubject(event.EventType())

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("NotificationService", fmt.Sprintf("No notification type for code '%s'", typeCode), nil)
			return nil
		}
		return err
	}
	if !config.IsActive {
		s.logger.Info("NotificationService", fmt.Sprintf("Notification type '%s' is inactive", typeCode), nil)
		return nil
	}

	if config.TargetType == model.TargetBroadcast {
		notif := s.buildNotification(uuid.Nil, config, event)
		if s.delivery != nil {
			s.delivery.Broadcast(notif)
		}
		return nil
	}

	recipients, err := s.resolveRecipients(ctx, config, event)
	if err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error resolving recipients for %s", typeCode), map[string]interface{}{"error": err.Error()})
		return err
	}

	for _, userID := range recipients {
		pref, err := s.repo.GetPreference(ctx, userID)
		if err != nil {
			s.logger.Warn("NotificationService", "Failed to load preference, using defaults", map[string]interface{}{"user_id": userID.String(), "error": err.Error()})
			pref = &model.UserNotificationPreference{UserID: userID, EmailEnabled: true}
		}
		if pref.IsMuted(config.Code) {
			continue
		}

		notif := s.buildNotification(userID, config, event)
		if err := s.repo.CreateNotification(ctx, &notif); err != nil {
			s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err.Error()})
			continue
		}

		if s.delivery != nil {
			s.delivery.Send(userID, notif)
		}
		if config.HasChannel(model.ChannelEmail) && pref.EmailEnabled {
			s.sendEmail(ctx, userID, notif)
		}
	}

	s.logger.Info("NotificationService", "Event processed", map[string]interface{}{"type": typeCode, "recipients": len(recipients)})
	return nil
}

func (s *NotificationService) sendEmail(ctx context.Context, userID uuid.UUID, notif model.Notification) {
	if s.email == nil {
		return
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("NotificationService", "Email recipient not found", map[string]interface{}{"user_id": userID.String()})
		return
	}
	if err := s.email.SendNotification(user.Email, notif.Title, notif.Message); err != nil {
		s.logger.Error("NotificationService", "Failed to send notification email", map[string]interface{}{"user_id": userID.String(), "error": err.Error()})
	}
}

func (s *NotificationService) resolveRecipients(ctx context.Context, config *model.NotificationType, event events.Event) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID

	switch config.TargetType {
	case model.TargetSelf:
		uidStr, _ := event.Payload()["user_id"].(string)
		uid, err := uuid.Parse(uidStr)
		if err != nil {
			s.logger.Warn("NotificationService", fmt.Sprintf("TargetType SELF but no user_id in payload for %s", config.Code), nil)
			return nil, nil
		}
		userIDs = append(userIDs, uid)

	case model.TargetAdmin, model.TargetRole:
		role := "admin"
		if config.TargetType == model.TargetRole {
			role = config.TargetRole
		}
		users, err := s.repo.GetUsersByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			userIDs = append(userIDs, u.Id)
		}
	}

	return userIDs, nil
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	payload := event.Payload()

	msg := config.Template
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}

	// Broadcasts carry their own title.
	title := config.DisplayName
	if t, ok := payload["title"].(string); ok && t != "" && config.TargetType == model.TargetBroadcast {
		title = t
	}

	var actorID *uuid.UUID
	if actorStr, ok := payload["actor_id"].(string); ok {
		if aid, err := uuid.Parse(actorStr); err == nil {
			actorID = &aid
		}
	}

	entityType, _ := payload["entity_type"].(string)
	var entityID *uuid.UUID
	if eidStr, ok := payload["entity_id"].(string); ok {
		if eid, err := uuid.Parse(eidStr); err == nil {
			entityID = &eid
		}
	}

	meta := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		meta[k] = v
	}
	if entityType != "" && entityID != nil {
		meta["action_url"] = fmt.Sprintf("/%ss/%s", entityType, entityID.String())
	}
	metaJSON, _ := json.Marshal(meta)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		ActorID:    actorID,
		TypeCode:   config.Code,
		Title:      title,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}
}

// GetNotifications pages through a user's inbox, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, q dto.PageQuery) (*dto.Page[model.Notification], error) {
	q.Normalize()
	items, total, err := s.repo.GetNotificationsByUserID(ctx, userID, q.Limit, q.Offset())
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(items, total, q)
	return &page, nil
}

// Backlog is the unread list sent when a stream opens.
func (s *NotificationService) Backlog(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	items, err := s.repo.GetUnreadByUserID(ctx, userID, backlogLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Notification{}
	}
	return items, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return serverutils.NotFound("Notification not found")
		}
		return err
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}
