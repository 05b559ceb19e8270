package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/pkg/mailer"
	"ticket-marketplace-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDelivery struct {
	mu        sync.Mutex
	sent      map[uuid.UUID][]model.Notification
	broadcast []model.Notification
}

func newFakeDelivery() *fakeDelivery {
	return &fakeDelivery{sent: make(map[uuid.UUID][]model.Notification)}
}

func (d *fakeDelivery) Send(userID uuid.UUID, n model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent[userID] = append(d.sent[userID], n)
}

func (d *fakeDelivery) Broadcast(n model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.broadcast = append(d.broadcast, n)
}

type fakeMailer struct {
	mailer.IEmailService
	mu sync.Mutex
	to []string
}

func (m *fakeMailer) SendNotification(to, title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	return nil
}

type notificationHarness struct {
	*marketFixture
	svc      *NotificationService
	delivery *fakeDelivery
	mail     *fakeMailer
}

func newNotificationHarness(t *testing.T) *notificationHarness {
	f := newMarketFixture(t)
	for _, nt := range model.DefaultNotificationTypes() {
		f.store.AddNotificationType(nt)
	}
	d := newFakeDelivery()
	m := &fakeMailer{}
	return &notificationHarness{
		marketFixture: f,
		svc:           NewNotificationService(f.store.Notifications(), d, m, f.log),
		delivery:      d,
		mail:          m,
	}
}

func busEvent(typ string, data map[string]interface{}) events.Event {
	return events.BaseEvent{Type: typ, Data: data}
}

func TestHandleEvent_Self(t *testing.T) {
	h := newNotificationHarness(t)
	ctx := context.Background()
	bookingId := uuid.New()

	err := h.svc.HandleEvent(ctx, busEvent("events.BOOKING_CONFIRMED", map[string]interface{}{
		"user_id":     h.buyer.Id.String(),
		"event_title": "Jazz Night",
		"quantity":    2,
		"entity_type": "booking",
		"entity_id":   bookingId.String(),
	}))
	require.NoError(t, err)

	page, err := h.svc.GetNotifications(ctx, h.buyer.Id, dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	n := page.Items[0]
	assert.Equal(t, "Booking confirmed", n.Title)
	assert.Equal(t, "You're going to Jazz Night! 2 ticket(s) confirmed.", n.Message)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(n.Metadata, &meta))
	assert.Equal(t, "/bookings/"+bookingId.String(), meta["action_url"])

	assert.Len(t, h.delivery.sent[h.buyer.Id], 1)
	assert.Equal(t, []string{"buyer@example.com"}, h.mail.to)
}

func TestHandleEvent_AdminTargetsActiveAdmins(t *testing.T) {
	h := newNotificationHarness(t)
	ctx := context.Background()

	err := h.svc.HandleEvent(ctx, busEvent("REPORT_CREATED", map[string]interface{}{
		"reporter_name": "Buyer", "reported_name": "Other", "reason": "spam",
	}))
	require.NoError(t, err)

	count, err := h.svc.GetUnreadCount(ctx, h.admin.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Empty(t, h.delivery.sent[h.buyer.Id])
	assert.Empty(t, h.mail.to)
}

func TestHandleEvent_BroadcastIsPushOnly(t *testing.T) {
	h := newNotificationHarness(t)
	ctx := context.Background()

	err := h.svc.HandleEvent(ctx, busEvent("SYSTEM_BROADCAST", map[string]interface{}{"title": "Maintenance", "message": "Back soon"}))
	require.NoError(t, err)

	require.Len(t, h.delivery.broadcast, 1)
	assert.Equal(t, "Maintenance", h.delivery.broadcast[0].Title)
	assert.Equal(t, "Back soon", h.delivery.broadcast[0].Message)

	count, err := h.svc.GetUnreadCount(ctx, h.buyer.Id)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHandleEvent_SkipsUnknownInactiveAndMuted(t *testing.T) {
	h := newNotificationHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.HandleEvent(ctx, busEvent("SOMETHING_ELSE", map[string]interface{}{"user_id": h.buyer.Id.String()})))

	inactive := model.NotificationType{Code: "QUIET", DisplayName: "Quiet", Template: "x", TargetType: model.TargetSelf, IsActive: false}
	h.store.AddNotificationType(inactive)
	require.NoError(t, h.svc.HandleEvent(ctx, busEvent("QUIET", map[string]interface{}{"user_id": h.buyer.Id.String()})))

	h.store.SetPreference(model.UserNotificationPreference{UserID: h.buyer.Id, MutedTypes: []string{"BOOKING_CANCELLED"}, EmailEnabled: true})
	require.NoError(t, h.svc.HandleEvent(ctx, busEvent("BOOKING_CANCELLED", map[string]interface{}{"user_id": h.buyer.Id.String()})))

	count, err := h.svc.GetUnreadCount(ctx, h.buyer.Id)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, h.delivery.sent)
}

func TestHandleEvent_EmailOptOut(t *testing.T) {
	h := newNotificationHarness(t)
	h.store.SetPreference(model.UserNotificationPreference{UserID: h.buyer.Id, EmailEnabled: false})

	err := h.svc.HandleEvent(context.Background(), busEvent("USER_BLOCKED", map[string]interface{}{"user_id": h.buyer.Id.String()}))
	require.NoError(t, err)
	assert.Len(t, h.delivery.sent[h.buyer.Id], 1)
	assert.Empty(t, h.mail.to)
}

func TestMarkAsRead(t *testing.T) {
	h := newNotificationHarness(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		require.NoError(t, h.svc.HandleEvent(ctx, busEvent("BOOKING_CANCELLED", map[string]interface{}{"user_id": h.buyer.Id.String(), "event_title": "Jazz"})))
	}

	backlog, err := h.svc.Backlog(ctx, h.buyer.Id)
	require.NoError(t, err)
	require.Len(t, backlog, 2)

	err = h.svc.MarkAsRead(ctx, backlog[0].ID, h.other.Id)
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	require.NoError(t, h.svc.MarkAsRead(ctx, backlog[0].ID, h.buyer.Id))
	count, _ := h.svc.GetUnreadCount(ctx, h.buyer.Id)
	assert.Equal(t, int64(1), count)

	updated, err := h.svc.MarkAllAsRead(ctx, h.buyer.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	backlog, err = h.svc.Backlog(ctx, h.buyer.Id)
	require.NoError(t, err)
	assert.NotNil(t, backlog)
	assert.Empty(t, backlog)
}
