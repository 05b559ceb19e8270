// Package notifyclient keeps a live, newest-first list of a user's
// notifications by following the server-sent event stream.
package notifyclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	initEvent    = "init"
	messageEvent = "message"

	markAllReadTimeout = 10 * time.Second
)

var (
	ErrNoUser = errors.New("notifyclient: user id is required")
	ErrClosed = errors.New("notifyclient: channel is closed")

	errStreamEnded = errors.New("notifyclient: stream ended")
)

// API is the part of the REST client a Channel needs. *apiclient.Client implements it.
type API interface {
	Stream(ctx context.Context, path string) (io.ReadCloser, error)
	Refresh(ctx context.Context) error
	Patch(ctx context.Context, path string, body, out any) error
}

// Notification mirrors the JSON pushed by the server.
type Notification struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	TypeCode   string          `json:"type_code"`
	EntityType string          `json:"entity_type,omitempty"`
	EntityID   string          `json:"entity_id,omitempty"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	IsRead     bool            `json:"is_read"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Option func(*Channel)

// WithOnUpdate is called from the loop goroutine with a snapshot after every change.
func WithOnUpdate(fn func([]Notification)) Option {
	return func(c *Channel) { c.onUpdate = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Channel) { c.logger = l }
}

// WithReconnectPolicy overrides the 2s..30s reconnect schedule.
func WithReconnectPolicy(initial, ceiling time.Duration) Option {
	return func(c *Channel) {
		c.initialDelay = initial
		c.maxDelay = ceiling
	}
}

// Channel follows one user's notification stream. At most one connection is
// live at a time; failures reconnect forever with capped exponential backoff.
type Channel struct {
	api          API
	userID       string
	logger       *zap.Logger
	onUpdate     func([]Notification)
	initialDelay time.Duration
	maxDelay     time.Duration

	mu     sync.Mutex
	items  []Notification
	cancel context.CancelFunc
	body   io.ReadCloser
	timer  *time.Timer
	closed bool
}

func NewChannel(api API, userID string, opts ...Option) *Channel {
	c := &Channel{
		api:          api,
		userID:       userID,
		logger:       zap.NewNop(),
		initialDelay: ReconnectDelay(1),
		maxDelay:     maxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Start opens the stream and follows it in a goroutine until ctx ends or Close.
// Calling Start again replaces the running connection.
func (c *Channel) Start(ctx context.Context) error {
	if c.userID == "" {
		return ErrNoUser
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(loopCtx)
	return nil
}

// Notifications returns a copy of the list, newest first.
func (c *Channel) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// MarkAllRead flags the local list as read and tells the server in the background.
// A failed request is only logged.
func (c *Channel) MarkAllRead() {
	c.mu.Lock()
	for i := range c.items {
		c.items[i].IsRead = true
	}
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snapshot)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), markAllReadTimeout)
		defer cancel()
		if err := c.api.Patch(ctx, "/messages/notifications/read-all", nil, nil); err != nil {
			c.logger.Warn("mark all read failed", zap.Error(err))
		}
	}()
}

// Close stops the loop, closes the open stream and cancels a pending reconnect.
// It is safe to call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopLocked()
}

func (c *Channel) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.body != nil {
		_ = c.body.Close()
		c.body = nil
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Channel) run(ctx context.Context) {
	policy := newBackOff(c.initialDelay, c.maxDelay)
	for {
		err := c.follow(ctx, policy.Reset)
		if ctx.Err() != nil {
			return
		}

		c.logger.Warn("notification stream lost", zap.String("user_id", c.userID), zap.Error(err))
		if refreshErr := c.api.Refresh(ctx); refreshErr != nil {
			c.logger.Debug("refresh before reconnect failed", zap.Error(refreshErr))
		}

		delay := policy.NextBackOff()
		c.logger.Info("reconnecting", zap.Duration("delay", delay))
		if !c.sleep(ctx, delay) {
			return
		}
	}
}

// follow reads one connection until it fails. onMessage runs after every event.
func (c *Channel) follow(ctx context.Context, onMessage func()) error {
	body, err := c.api.Stream(ctx, "/messages/notifications/stream/"+c.userID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		_ = body.Close()
		return ctx.Err()
	}
	if c.body != nil {
		_ = c.body.Close()
	}
	c.body = body
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.body == body {
			c.body = nil
		}
		c.mu.Unlock()
		_ = body.Close()
	}()

	scanner := NewScanner(body)
	for scanner.Next() {
		if err := c.handle(scanner.Event()); err != nil {
			c.logger.Warn("bad notification event", zap.Error(err))
			continue
		}
		onMessage()
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errStreamEnded
}

func (c *Channel) handle(ev Event) error {
	var incoming []Notification
	switch ev.Type {
	case initEvent:
		if err := json.Unmarshal([]byte(ev.Data), &incoming); err != nil {
			return fmt.Errorf("init event: %w", err)
		}
	case "", messageEvent:
		var n Notification
		if err := json.Unmarshal([]byte(ev.Data), &n); err != nil {
			return fmt.Errorf("message event: %w", err)
		}
		incoming = []Notification{n}
	default:
		return nil
	}

	c.mu.Lock()
	c.items = prepend(c.items, incoming)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snapshot)
	return nil
}

// prepend puts incoming (already newest first) ahead of existing, dropping
// entries already held so a reconnect's backlog does not duplicate them.
func prepend(existing, incoming []Notification) []Notification {
	seen := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		seen[n.ID] = struct{}{}
	}

	fresh := make([]Notification, 0, len(incoming))
	for _, n := range incoming {
		if _, ok := seen[n.ID]; ok && n.ID != "" {
			continue
		}
		seen[n.ID] = struct{}{}
		fresh = append(fresh, n)
	}
	return append(fresh, existing...)
}

func (c *Channel) snapshotLocked() []Notification {
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Channel) notify(snapshot []Notification) {
	if c.onUpdate != nil {
		c.onUpdate(snapshot)
	}
}

func (c *Channel) sleep(ctx context.Context, d time.Duration) bool {
	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		return false
	}
	timer := time.NewTimer(d)
	c.timer = timer
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.timer == timer {
			c.timer = nil
		}
		c.mu.Unlock()
	}()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		timer.Stop()
		return false
	}
}
