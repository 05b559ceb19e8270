package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel  = "cluster_events"
	broadcastTarget = "*"
)

// clusterMessage is what instances exchange over Redis.
type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// UserID -> open streams (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance delivery. Optional.
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns membership changes until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			metrics.ActiveStreams.WithLabelValues(client.Transport).Inc()
			close(client.registered)
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID.String(), "transport": client.Transport})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Register blocks until the run loop has added the client, so pushes issued
// after it returns reach the client.
func (h *Hub) Register(ctx context.Context, client *Client) error {
	select {
	case h.register <- client:
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-client.registered
	return nil
}

// Unregister is safe to call more than once and after the hub stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.UserID]
	for i, c := range clients {
		if c != client {
			continue
		}
		h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
		close(client.Send)
		metrics.ActiveStreams.WithLabelValues(client.Transport).Dec()
		break
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID.String()})
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for uid, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
			metrics.ActiveStreams.WithLabelValues(c.Transport).Dec()
		}
		delete(h.clients, uid)
	}
}

// Connected reports how many streams a user has open on this instance.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Send pushes a notification to every local stream of userID and to the
// other instances.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data, err := json.Marshal(notification)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode notification", map[string]interface{}{"error": err.Error()})
		return
	}
	h.deliverLocal(userID.String(), data)
	h.publishCluster(userID.String(), data)
}

// Broadcast pushes a notification to every connected stream on every instance.
func (h *Hub) Broadcast(notification model.Notification) {
	data, err := json.Marshal(notification)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode notification", map[string]interface{}{"error": err.Error()})
		return
	}
	h.deliverLocal(broadcastTarget, data)
	h.publishCluster(broadcastTarget, data)
}

// deliverLocal never blocks: a client whose buffer is full misses the message.
func (h *Hub) deliverLocal(target string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if target == broadcastTarget {
		for _, clients := range h.clients {
			for _, c := range clients {
				h.offer(c, data)
			}
		}
		return
	}

	uid, err := uuid.Parse(target)
	if err != nil {
		return
	}
	for _, c := range h.clients[uid] {
		h.offer(c, data)
	}
}

func (h *Hub) offer(c *Client, data []byte) {
	select {
	case c.Send <- data:
		metrics.NotificationsDelivered.Inc()
	default:
		metrics.NotificationsDropped.Inc()
		h.logger.Warn("Hub", "Client buffer full, dropping message", map[string]interface{}{"user_id": c.UserID.String(), "transport": c.Transport})
	}
}

func (h *Hub) publishCluster(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{Origin: h.instanceID, TargetUserID: target, Message: data})
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage([]byte(msg.Payload))
		}
	}
}

// handleClusterMessage delivers a message relayed by another instance.
// Our own publications come back on the channel too and are ignored.
func (h *Hub) handleClusterMessage(raw []byte) {
	var msg clusterMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if msg.Origin == h.instanceID {
		return
	}
	h.deliverLocal(msg.TargetUserID, msg.Message)
}
