package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	server        *httptest.Server
	valid         atomic.Value
	refreshes     atomic.Int32
	rejectRefresh atomic.Bool
	// refreshIssuesStale makes refresh succeed with a token the API still rejects.
	refreshIssuesStale atomic.Bool
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "message": message, "data": data})
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.valid.Store("access-1")

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret123" {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "Login success", map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"user":          map[string]any{"id": "8b1c2c55-7c8f-4a55-9b47-2f1f0e4f6a01", "email": body["email"], "role": "user"},
		})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshes.Add(1)
		if f.rejectRefresh.Load() {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid refresh token", nil)
			return
		}
		if !f.refreshIssuesStale.Load() {
			f.valid.Store("access-2")
		}
		writeEnvelope(w, http.StatusOK, "Token refreshed", map[string]any{
			"access_token":  "access-2",
			"refresh_token": "refresh-2",
		})
	})
	mux.HandleFunc("/api/user/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.valid.Load().(string) {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "Profile", map[string]any{"full_name": "Asha"})
	})
	mux.HandleFunc("/api/events/missing", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, "Event not found", nil)
	})
	mux.HandleFunc("/api/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestClient(t *testing.T, f *fakeAPI, opts ...Option) *Client {
	t.Helper()
	c, err := New(f.server.URL+"/api/", opts...)
	require.NoError(t, err)
	return c
}

func TestLogin(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	res, err := c.Login(context.Background(), "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", res.User.Email)
	assert.Equal(t, "access-1", c.AccessToken())
	assert.Equal(t, "refresh-1", c.RefreshToken())

	_, err = c.Login(context.Background(), "asha@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.Zero(t, f.refreshes.Load())
}

func TestDo_RefreshesOnceOn401(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f, WithTokens("access-1", "refresh-1"))

	var profile struct {
		FullName string `json:"full_name"`
	}
	// Server now wants access-2, which only a refresh yields.
	f.valid.Store("access-2")
	require.NoError(t, c.Get(context.Background(), "/user/profile", &profile))
	assert.Equal(t, "Asha", profile.FullName)
	assert.Equal(t, int32(1), f.refreshes.Load())
	assert.Equal(t, "access-2", c.AccessToken())
	assert.Equal(t, "refresh-2", c.RefreshToken())
}

func TestDo_SecondUnauthorizedIsReturned(t *testing.T) {
	f := newFakeAPI(t)
	f.refreshIssuesStale.Store(true)
	c := newTestClient(t, f, WithTokens("access-1", "refresh-1"))
	f.valid.Store("never-issued")

	err := c.Get(context.Background(), "/user/profile", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), f.refreshes.Load())
	assert.Equal(t, "access-2", c.AccessToken())
}

func TestDo_FailedRefreshReturnsOriginalError(t *testing.T) {
	f := newFakeAPI(t)
	f.rejectRefresh.Store(true)
	c := newTestClient(t, f, WithTokens("stale", "refresh-1"))

	err := c.Get(context.Background(), "/user/profile", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid or expired token", apiErr.Message)
	assert.Equal(t, int32(1), f.refreshes.Load())
}

func TestDo_NoSessionSkipsRefresh(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	err := c.Get(context.Background(), "/user/profile", nil)
	assert.True(t, IsUnauthorized(err))
	assert.Zero(t, f.refreshes.Load())
	assert.ErrorIs(t, c.Refresh(context.Background()), ErrNoRefreshToken)
}

func TestDo_ErrorEnvelopes(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	tests := []struct {
		name    string
		path    string
		status  int
		message string
	}{
		{"envelope message", "/events/missing", http.StatusNotFound, "Event not found"},
		{"non-json body", "/broken", http.StatusBadGateway, "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Get(context.Background(), tt.path, nil)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestStream_RejectsNonOK(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f)

	_, err := c.Stream(context.Background(), "/events/missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
