package realtime

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func register(t *testing.T, h *Hub, userID uuid.UUID, buffer int) *Client {
	t.Helper()
	c := NewClient(userID, TransportSSE, buffer)
	require.NoError(t, h.Register(context.Background(), c))
	return c
}

func receive(t *testing.T, c *Client) model.Notification {
	t.Helper()
	select {
	case raw := <-c.Send:
		var n model.Notification
		require.NoError(t, json.Unmarshal(raw, &n))
		return n
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return model.Notification{}
	}
}

func TestHub_SendReachesEveryDevice(t *testing.T) {
	h, _ := startHub(t)
	user := uuid.New()
	phone := register(t, h, user, 4)
	laptop := register(t, h, user, 4)
	stranger := register(t, h, uuid.New(), 4)
	assert.Equal(t, 2, h.Connected(user))

	h.Send(user, model.Notification{ID: uuid.New(), UserID: user, Title: "Booked"})

	assert.Equal(t, "Booked", receive(t, phone).Title)
	assert.Equal(t, "Booked", receive(t, laptop).Title)
	assert.Empty(t, stranger.Send)
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	h, _ := startHub(t)
	user := uuid.New()
	c := register(t, h, user, 1)

	done := make(chan struct{})
	go func() {
		h.Send(user, model.Notification{Title: "first"})
		h.Send(user, model.Notification{Title: "second"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked on a full client")
	}

	assert.Equal(t, "first", receive(t, c).Title)
	assert.Empty(t, c.Send)
	assert.Equal(t, 1, h.Connected(user))
}

func TestHub_Broadcast(t *testing.T) {
	h, _ := startHub(t)
	a := register(t, h, uuid.New(), 2)
	b := register(t, h, uuid.New(), 2)

	h.Broadcast(model.Notification{Title: "Maintenance"})

	assert.Equal(t, "Maintenance", receive(t, a).Title)
	assert.Equal(t, "Maintenance", receive(t, b).Title)
}

func TestHub_UnregisterClosesClient(t *testing.T) {
	h, _ := startHub(t)
	user := uuid.New()
	c := register(t, h, user, 2)

	h.Unregister(c)
	h.Unregister(c)

	_, open := <-c.Send
	assert.False(t, open)
	assert.Zero(t, h.Connected(user))
}

func TestHub_ClusterMessages(t *testing.T) {
	h, _ := startHub(t)
	user := uuid.New()
	c := register(t, h, user, 4)

	relay := func(origin, target, title string) []byte {
		msg, _ := json.Marshal(model.Notification{Title: title})
		raw, _ := json.Marshal(clusterMessage{Origin: origin, TargetUserID: target, Message: msg})
		return raw
	}

	h.handleClusterMessage(relay(h.instanceID, user.String(), "echo"))
	assert.Empty(t, c.Send)

	h.handleClusterMessage(relay("other-instance", user.String(), "remote"))
	assert.Equal(t, "remote", receive(t, c).Title)

	h.handleClusterMessage(relay("other-instance", broadcastTarget, "everyone"))
	assert.Equal(t, "everyone", receive(t, c).Title)

	h.handleClusterMessage([]byte("not json"))
	assert.Empty(t, c.Send)
}

func TestHub_RegisterAfterStop(t *testing.T) {
	h, cancel := startHub(t)
	c := register(t, h, uuid.New(), 1)
	cancel()

	_, open := <-c.Send
	assert.False(t, open)

	err := h.Register(context.Background(), NewClient(uuid.New(), TransportWS, 1))
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestServeSSE(t *testing.T) {
	h, cancel := startHub(t)
	user := uuid.New()
	c := register(t, h, user, 4)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	finished := make(chan struct{})
	go func() {
		h.ServeSSE(w, c, []byte(`[{"title":"old"}]`), 20*time.Millisecond)
		close(finished)
	}()

	h.Send(user, model.Notification{Title: "fresh"})
	time.Sleep(60 * time.Millisecond)
	cancel()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("stream did not end when the hub stopped")
	}

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "event: init\ndata: [{\"title\":\"old\"}]\n\n"))
	assert.Contains(t, out, `"title":"fresh"`)
	assert.Contains(t, out, ": ping\n\n")
}
