package notifyclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ticket-marketplace-be/pkg/apiclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ API = (*apiclient.Client)(nil)

const testUser = "5f0c6b1e-1f7b-4d7e-9c0e-0a9d3f2b6c11"

func note(id string) Notification {
	return Notification{ID: id, UserID: testUser, TypeCode: "BOOKING_CONFIRMED", Title: "Booking confirmed", Message: id}
}

func writeEvent(w http.ResponseWriter, event string, v any) {
	data, _ := json.Marshal(v)
	if event != "" {
		fmt.Fprintf(w, "event: %s\n", event)
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.(http.Flusher).Flush()
}

type streamServer struct {
	server      *httptest.Server
	connections atomic.Int32
	refreshes   atomic.Int32
	readAll     chan struct{}
}

// newStreamServer drops the first connection after one push and keeps the second open.
func newStreamServer(t *testing.T) *streamServer {
	t.Helper()
	s := &streamServer{readAll: make(chan struct{}, 1)}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/notifications/stream/"+testUser, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		switch s.connections.Add(1) {
		case 1:
			writeEvent(w, "init", []Notification{note("n2"), note("n1")})
			_, _ = io.WriteString(w, ": ping\n\n")
			writeEvent(w, "", note("n3"))
		default:
			writeEvent(w, "init", []Notification{note("n3"), note("n2")})
			writeEvent(w, "", note("n4"))
			<-r.Context().Done()
		}
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.refreshes.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": 200, "message": "Token refreshed",
			"data": map[string]any{"access_token": "access-2", "refresh_token": "refresh-2"},
		})
	})
	mux.HandleFunc("/api/messages/notifications/read-all", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": 200, "message": "All notifications marked as read"})
		s.readAll <- struct{}{}
	})

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func newTestChannel(t *testing.T, s *streamServer, opts ...Option) *Channel {
	t.Helper()
	api, err := apiclient.New(s.server.URL+"/api", apiclient.WithTokens("access-1", "refresh-1"))
	require.NoError(t, err)

	opts = append([]Option{WithReconnectPolicy(10*time.Millisecond, 50*time.Millisecond)}, opts...)
	ch := NewChannel(api, testUser, opts...)
	t.Cleanup(ch.Close)
	return ch
}

func ids(items []Notification) []string {
	out := make([]string, len(items))
	for i, n := range items {
		out[i] = n.ID
	}
	return out
}

func TestChannel_BacklogThenPushesAcrossReconnect(t *testing.T) {
	s := newStreamServer(t)
	updates := make(chan []Notification, 16)
	ch := newTestChannel(t, s, WithOnUpdate(func(items []Notification) { updates <- items }))

	require.NoError(t, ch.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"n4", "n3", "n2", "n1"}, ids(ch.Notifications()))
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(2), s.connections.Load())
	assert.GreaterOrEqual(t, s.refreshes.Load(), int32(1))

	first := <-updates
	assert.Equal(t, []string{"n2", "n1"}, ids(first))
}

func TestChannel_NotificationsIsACopy(t *testing.T) {
	s := newStreamServer(t)
	ch := newTestChannel(t, s)
	require.NoError(t, ch.Start(context.Background()))

	require.Eventually(t, func() bool { return len(ch.Notifications()) == 4 }, 3*time.Second, 10*time.Millisecond)

	snapshot := ch.Notifications()
	snapshot[0].Title = "changed"
	assert.Equal(t, "Booking confirmed", ch.Notifications()[0].Title)
}

func TestChannel_MarkAllRead(t *testing.T) {
	s := newStreamServer(t)
	ch := newTestChannel(t, s)
	require.NoError(t, ch.Start(context.Background()))
	require.Eventually(t, func() bool { return len(ch.Notifications()) == 4 }, 3*time.Second, 10*time.Millisecond)

	ch.MarkAllRead()
	for _, n := range ch.Notifications() {
		assert.True(t, n.IsRead)
	}

	select {
	case <-s.readAll:
	case <-time.After(3 * time.Second):
		t.Fatal("read-all request was not sent")
	}
}

func TestChannel_StartAndClose(t *testing.T) {
	s := newStreamServer(t)

	api, err := apiclient.New(s.server.URL + "/api")
	require.NoError(t, err)
	assert.ErrorIs(t, NewChannel(api, "").Start(context.Background()), ErrNoUser)

	ch := newTestChannel(t, s)
	require.NoError(t, ch.Start(context.Background()))
	require.Eventually(t, func() bool { return s.connections.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	ch.Close()
	ch.Close()
	assert.ErrorIs(t, ch.Start(context.Background()), ErrClosed)
}

func TestChannel_ContextCancelStopsReconnecting(t *testing.T) {
	s := newStreamServer(t)
	ch := newTestChannel(t, s, WithReconnectPolicy(time.Hour, time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, ch.Start(ctx))

	// First connection ends after its push; the loop then waits an hour.
	require.Eventually(t, func() bool { return len(ch.Notifications()) == 3 }, 3*time.Second, 10*time.Millisecond)
	cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), s.connections.Load())
}

// flakyStreamServer rejects the first four connections, serves one push on the
// fifth, rejects the next two and then holds the eighth open.
type flakyStreamServer struct {
	server *httptest.Server

	mu    sync.Mutex
	times []time.Time
}

func newFlakyStreamServer(t *testing.T) *flakyStreamServer {
	t.Helper()
	s := &flakyStreamServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/notifications/stream/"+testUser, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.times = append(s.times, time.Now())
		n := len(s.times)
		s.mu.Unlock()

		switch {
		case n == 5:
			w.Header().Set("Content-Type", "text/event-stream")
			writeEvent(w, "", note("n1"))
		case n >= 8:
			w.Header().Set("Content-Type", "text/event-stream")
			w.(http.Flusher).Flush()
			<-r.Context().Done()
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 503, "message": "Service unavailable"})
		}
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": 200, "message": "Token refreshed",
			"data": map[string]any{"access_token": "access-2", "refresh_token": "refresh-2"},
		})
	})

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *flakyStreamServer) gaps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, 0, len(s.times))
	for i := 1; i < len(s.times); i++ {
		out = append(out, s.times[i].Sub(s.times[i-1]))
	}
	return out
}

func TestChannel_BackoffGrowsThenResetsAfterMessage(t *testing.T) {
	const (
		initial = 50 * time.Millisecond
		ceiling = 200 * time.Millisecond
	)
	s := newFlakyStreamServer(t)
	api, err := apiclient.New(s.server.URL+"/api", apiclient.WithTokens("access-1", "refresh-1"))
	require.NoError(t, err)

	ch := NewChannel(api, testUser, WithReconnectPolicy(initial, ceiling))
	t.Cleanup(ch.Close)
	require.NoError(t, ch.Start(context.Background()))

	require.Eventually(t, func() bool { return len(s.gaps()) >= 7 }, 10*time.Second, 10*time.Millisecond)
	gaps := s.gaps()

	// Four failures: 50, 100, 200, then capped at 200.
	want := []time.Duration{initial, 2 * initial, ceiling, ceiling}
	for i, d := range want {
		assert.GreaterOrEqual(t, gaps[i], d, "gap %d", i+1)
	}
	assert.Less(t, gaps[0], gaps[2])

	// The fifth connection delivered a message, so the schedule starts over.
	assert.GreaterOrEqual(t, gaps[4], initial)
	assert.Less(t, gaps[4], gaps[3])
	assert.GreaterOrEqual(t, gaps[5], 2*initial)
	assert.GreaterOrEqual(t, gaps[6], ceiling)

	assert.Equal(t, []string{"n1"}, ids(ch.Notifications()))
}

func TestPrepend(t *testing.T) {
	existing := []Notification{note("b"), note("a")}
	got := prepend(existing, []Notification{note("c"), note("b")})
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))
}
