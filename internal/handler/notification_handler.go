package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/realtime"
	"ticket-marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type NotificationHandler struct {
	service   *service.NotificationService
	hub       *realtime.Hub
	auth      fiber.Handler
	keepAlive time.Duration
	buffer    int
	logger    logger.ILogger
}

func NewNotificationHandler(service *service.NotificationService, hub *realtime.Hub, auth fiber.Handler, keepAlive time.Duration, buffer int, log logger.ILogger) *NotificationHandler {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	return &NotificationHandler{
		service:   service,
		hub:       hub,
		auth:      auth,
		keepAlive: keepAlive,
		buffer:    buffer,
		logger:    log,
	}
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	msg := router.Group("/messages")
	msg.Use(h.auth)

	notif := msg.Group("/notifications")
	notif.Get("/", h.GetNotifications)
	notif.Get("/unread-count", h.GetUnreadCount)
	notif.Get("/stream/:userId", h.Stream)
	notif.Patch("/read-all", h.MarkAllAsRead)
	notif.Patch("/:id/read", h.MarkAsRead)

	msg.Get("/ws", h.ServeWs)
}

// GetNotifications returns the user's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userID, err := serverutils.CurrentUserID(c)
	if err != nil {
		return err
	}
	var q dto.PageQuery
	if err := c.QueryParser(&q); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}

	page, err := h.service.GetNotifications(c.UserContext(), userID, q)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Notifications", page))
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := serverutils.CurrentUserID(c)
	if err != nil {
		return err
	}
	count, err := h.service.GetUnreadCount(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Unread count", dto.UnreadCountResponse{Count: count}))
}

// MarkAsRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := serverutils.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return serverutils.BadRequest("Invalid notification ID")
	}

	if err := h.service.MarkAsRead(c.UserContext(), id, userID); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := serverutils.CurrentUserID(c)
	if err != nil {
		return err
	}
	updated, err := h.service.MarkAllAsRead(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("All notifications marked as read", dto.MarkAllReadResponse{Updated: updated}))
}

// Stream serves the SSE feed. The client is registered before the backlog is
// read so nothing published in between is lost.
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	userID, err := serverutils.CurrentUserID(c)
	if err != nil {
		return err
	}
	if c.Params("userId") != userID.String() {
		return serverutils.Forbidden("You can only stream your own notifications")
	}

	client := realtime.NewClient(userID, realtime.TransportSSE, h.buffer)
	if err := h.hub.Register(c.UserContext(), client); err != nil {
		return serverutils.Unavailable("Notification stream unavailable", err)
	}

	backlog, err := h.service.Backlog(c.UserContext(), userID)
	if err != nil {
		h.hub.Unregister(client)
		return err
	}
	initial, err := json.Marshal(backlog)
	if err != nil {
		h.hub.Unregister(client)
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	h.logger.Info("NotificationHandler", "SSE stream opened", map[string]interface{}{"user_id": userID.String()})
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		h.hub.ServeSSE(w, client, initial, h.keepAlive)
		h.logger.Info("NotificationHandler", "SSE stream closed", map[string]interface{}{"user_id": userID.String()})
	}))
	return nil
}

// ServeWs serves the same feed over WebSocket, one notification per frame.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID, err := serverutils.CurrentUserID(c)
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := realtime.NewClient(userID, realtime.TransportWS, h.buffer)
		if err := h.hub.Register(context.Background(), client); err != nil {
			_ = conn.Close()
			return
		}
		h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID.String()})
		h.hub.ServeWs(conn, client)
		h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID.String()})
	})(c)
}
