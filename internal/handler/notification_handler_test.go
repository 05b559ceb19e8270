package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/realtime"
	"ticket-marketplace-be/internal/repository/memory"
	"ticket-marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-secret"

type handlerFixture struct {
	app    *fiber.App
	store  *memory.Store
	cancel context.CancelFunc
	user   uuid.UUID
	token  string
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	log := logger.NewNopLogger()
	store := memory.NewStore()
	hub := realtime.NewHub(nil, log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	notifService := service.NewNotificationService(store.Notifications(), hub, nil, log)
	h := NewNotificationHandler(notifService, hub, serverutils.JwtMiddleware(testSecret), time.Hour, 8, log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	h.RegisterRoutes(app.Group("/api"))

	user := uuid.New()
	token, _, err := serverutils.GenerateAccessToken(testSecret, user, "user", time.Hour)
	require.NoError(t, err)

	return &handlerFixture{app: app, store: store, cancel: cancel, user: user, token: token}
}

func (f *handlerFixture) seed(t *testing.T, title string, read bool, age time.Duration) model.Notification {
	t.Helper()
	n := model.Notification{UserID: f.user, TypeCode: "BOOKING_CONFIRMED", Title: title, Message: title, IsRead: read, CreatedAt: time.Now().Add(-age)}
	require.NoError(t, f.store.Notifications().CreateNotification(context.Background(), &n))
	return n
}

func (f *handlerFixture) do(t *testing.T, method, path string, timeout int) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err := f.app.Test(req, timeout)
	require.NoError(t, err)

	body := map[string]interface{}{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp, body
}

func TestNotificationHandler_ListAndRead(t *testing.T) {
	f := newHandlerFixture(t)
	older := f.seed(t, "older", false, 2*time.Minute)
	f.seed(t, "newer", false, time.Minute)
	f.seed(t, "seen", true, 3*time.Minute)

	resp, body := f.do(t, http.MethodGet, "/api/messages/notifications?limit=2", -1)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 3, data["total"])
	items := data["items"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "newer", items[0].(map[string]interface{})["title"])

	_, body = f.do(t, http.MethodGet, "/api/messages/notifications/unread-count", -1)
	assert.EqualValues(t, 2, body["data"].(map[string]interface{})["count"])

	resp, _ = f.do(t, http.MethodPatch, "/api/messages/notifications/"+older.ID.String()+"/read", -1)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPatch, "/api/messages/notifications/"+uuid.NewString()+"/read", -1)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPatch, "/api/messages/notifications/not-a-uuid/read", -1)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = f.do(t, http.MethodPatch, "/api/messages/notifications/read-all", -1)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["updated"])
}

func TestNotificationHandler_RequiresToken(t *testing.T) {
	f := newHandlerFixture(t)
	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/messages/notifications", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNotificationHandler_StreamOtherUserForbidden(t *testing.T) {
	f := newHandlerFixture(t)
	resp, _ := f.do(t, http.MethodGet, "/api/messages/notifications/stream/"+uuid.NewString(), -1)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNotificationHandler_StreamSendsBacklogFirst(t *testing.T) {
	f := newHandlerFixture(t)
	f.seed(t, "waiting", false, time.Minute)
	f.seed(t, "already read", true, time.Minute)

	go func() {
		time.Sleep(200 * time.Millisecond)
		f.cancel()
	}()
	resp, _ := f.do(t, http.MethodGet, "/api/messages/notifications/stream/"+f.user.String(), 5000)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(raw)
	require.True(t, strings.HasPrefix(out, "event: init\ndata: ["), out)
	assert.Contains(t, out, `"title":"waiting"`)
	assert.NotContains(t, out, "already read")
}

func TestNotificationHandler_WsRequiresUpgrade(t *testing.T) {
	f := newHandlerFixture(t)
	resp, _ := f.do(t, http.MethodGet, "/api/messages/ws", -1)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
