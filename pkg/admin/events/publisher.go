package events

import (
	"context"
	"time"

	"ticket-marketplace-be/internal/pkg/logger"
	pkgEvents "ticket-marketplace-be/pkg/events"

	"github.com/google/uuid"
)

// Domain event codes. Each one has a matching notification type row.
const (
	UserRegistered        = "USER_REGISTERED"
	UserBlocked           = "USER_BLOCKED"
	ReportCreated         = "REPORT_CREATED"
	ReportStatusUpdated   = "REPORT_STATUS_UPDATED"
	BookingConfirmed      = "BOOKING_CONFIRMED"
	BookingCancelled      = "BOOKING_CANCELLED"
	EventBooked           = "EVENT_BOOKED"
	WalletCredited        = "WALLET_CREDITED"
	FeatureRequestCreated = "FEATURE_REQUEST_CREATED"
	FeatureRequestUpdated = "FEATURE_REQUEST_UPDATED"
	SystemBroadcast       = "SYSTEM_BROADCAST"
)

// Publisher emits the marketplace's domain events. Failures are logged, never returned:
// a lost notification must not fail the request that caused it.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, userId uuid.UUID, email, fullName, role string)
	PublishUserBlocked(ctx context.Context, userId, adminId uuid.UUID, fullName string)
	PublishReportCreated(ctx context.Context, reportId, reportedId, reporterId uuid.UUID, reportedName, reporterName, reason string)
	PublishReportStatusUpdated(ctx context.Context, reportId, reporterId, adminId uuid.UUID, reportedName, status string)
	PublishBookingConfirmed(ctx context.Context, bookingId, userId, organizerId uuid.UUID, eventTitle string, quantity int, total int64)
	PublishBookingCancelled(ctx context.Context, bookingId, userId uuid.UUID, eventTitle string, refunded int64)
	PublishWalletCredited(ctx context.Context, userId, transactionId uuid.UUID, amount, balance int64, description string)
	PublishFeatureRequestCreated(ctx context.Context, requestId, userId uuid.UUID, title string)
	PublishFeatureRequestUpdated(ctx context.Context, requestId, userId uuid.UUID, title, status string)
	PublishBroadcast(ctx context.Context, adminId uuid.UUID, title, message string)
}

type BusPublisher struct {
	publisher pkgEvents.Publisher
	logger    logger.ILogger
}

// NewBusPublisher wraps NATS or the local bus. A nil publisher turns every call into a no-op.
func NewBusPublisher(publisher pkgEvents.Publisher, logger logger.ILogger) *BusPublisher {
	return &BusPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *BusPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	data["occurred_at"] = now
	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *BusPublisher) PublishUserRegistered(ctx context.Context, userId uuid.UUID, email, fullName, role string) {
	p.publish(ctx, UserRegistered, map[string]interface{}{
		"user_id":     userId.String(),
		"actor_id":    userId.String(),
		"email":       email,
		"full_name":   fullName,
		"role":        role,
		"entity_type": "user",
		"entity_id":   userId.String(),
	})
}

func (p *BusPublisher) PublishUserBlocked(ctx context.Context, userId, adminId uuid.UUID, fullName string) {
	p.publish(ctx, UserBlocked, map[string]interface{}{
		"user_id":   userId.String(),
		"actor_id":  adminId.String(),
		"full_name": fullName,
	})
}

func (p *BusPublisher) PublishReportCreated(ctx context.Context, reportId, reportedId, reporterId uuid.UUID, reportedName, reporterName, reason string) {
	p.publish(ctx, ReportCreated, map[string]interface{}{
		"report_id":     reportId.String(),
		"reported_id":   reportedId.String(),
		"actor_id":      reporterId.String(),
		"reported_name": reportedName,
		"reporter_name": reporterName,
		"reason":        reason,
		"entity_type":   "report",
		"entity_id":     reportId.String(),
	})
}

func (p *BusPublisher) PublishReportStatusUpdated(ctx context.Context, reportId, reporterId, adminId uuid.UUID, reportedName, status string) {
	p.publish(ctx, ReportStatusUpdated, map[string]interface{}{
		"report_id":     reportId.String(),
		"user_id":       reporterId.String(),
		"actor_id":      adminId.String(),
		"reported_name": reportedName,
		"status":        status,
		"entity_type":   "report",
		"entity_id":     reportId.String(),
	})
}

// PublishBookingConfirmed notifies the buyer and, through EVENT_BOOKED, the organizer.
func (p *BusPublisher) PublishBookingConfirmed(ctx context.Context, bookingId, userId, organizerId uuid.UUID, eventTitle string, quantity int, total int64) {
	p.publish(ctx, BookingConfirmed, map[string]interface{}{
		"booking_id":  bookingId.String(),
		"user_id":     userId.String(),
		"event_title": eventTitle,
		"quantity":    quantity,
		"total":       total,
		"entity_type": "booking",
		"entity_id":   bookingId.String(),
	})
	if organizerId != uuid.Nil {
		p.publish(ctx, EventBooked, map[string]interface{}{
			"booking_id":  bookingId.String(),
			"user_id":     organizerId.String(),
			"actor_id":    userId.String(),
			"event_title": eventTitle,
			"quantity":    quantity,
		})
	}
}

func (p *BusPublisher) PublishBookingCancelled(ctx context.Context, bookingId, userId uuid.UUID, eventTitle string, refunded int64) {
	p.publish(ctx, BookingCancelled, map[string]interface{}{
		"booking_id":  bookingId.String(),
		"user_id":     userId.String(),
		"event_title": eventTitle,
		"refunded":    refunded,
		"entity_type": "booking",
		"entity_id":   bookingId.String(),
	})
}

func (p *BusPublisher) PublishWalletCredited(ctx context.Context, userId, transactionId uuid.UUID, amount, balance int64, description string) {
	p.publish(ctx, WalletCredited, map[string]interface{}{
		"user_id":        userId.String(),
		"transaction_id": transactionId.String(),
		"amount":         amount,
		"balance":        balance,
		"description":    description,
	})
}

func (p *BusPublisher) PublishFeatureRequestCreated(ctx context.Context, requestId, userId uuid.UUID, title string) {
	p.publish(ctx, FeatureRequestCreated, map[string]interface{}{
		"request_id":  requestId.String(),
		"actor_id":    userId.String(),
		"title":       title,
		"entity_type": "feature-request",
		"entity_id":   requestId.String(),
	})
}

func (p *BusPublisher) PublishFeatureRequestUpdated(ctx context.Context, requestId, userId uuid.UUID, title, status string) {
	p.publish(ctx, FeatureRequestUpdated, map[string]interface{}{
		"request_id":  requestId.String(),
		"user_id":     userId.String(),
		"title":       title,
		"status":      status,
		"entity_type": "feature-request",
		"entity_id":   requestId.String(),
	})
}

func (p *BusPublisher) PublishBroadcast(ctx context.Context, adminId uuid.UUID, title, message string) {
	p.publish(ctx, SystemBroadcast, map[string]interface{}{
		"actor_id": adminId.String(),
		"title":    title,
		"message":  message,
	})
}
