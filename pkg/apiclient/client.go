// Package apiclient is a small Go client for the marketplace REST API.
// It keeps the session tokens, sends them as a Bearer header and refreshes
// once when the server answers 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"

	"ticket-marketplace-be/internal/dto"

	"go.uber.org/zap"
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"
)

// ErrNoRefreshToken is returned by Refresh when no session was established.
var ErrNoRefreshToken = errors.New("apiclient: no refresh token")

// APIError is a non-2xx answer. Message comes from the response envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apiclient: %d %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its Jar is kept if set.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTokens resumes a session from stored tokens.
func WithTokens(access, refresh string) Option {
	return func(c *Client) {
		c.accessToken = access
		c.refreshToken = refresh
	}
}

// New builds a client for baseURL, e.g. "http://localhost:3000/api".
// The default HTTP client has a cookie jar and no timeout so streams stay open;
// request lifetimes are bounded by the caller's context.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *Client) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

func (c *Client) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	if refresh != "" {
		c.refreshToken = refresh
	}
}

// Login starts a session and stores both tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var res dto.LoginResponse
	err := c.send(ctx, http.MethodPost, loginPath, dto.LoginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	c.setTokens(res.AccessToken, res.RefreshToken)
	c.logger.Debug("logged in", zap.String("user_id", res.User.Id.String()))
	return &res, nil
}

// Refresh rotates the token pair. The refresh cookie in the jar is sent as well,
// so a session started through the browser-style cookie flow also refreshes.
func (c *Client) Refresh(ctx context.Context) error {
	refresh := c.RefreshToken()
	if refresh == "" && !c.hasCookies() {
		return ErrNoRefreshToken
	}

	var res dto.LoginResponse
	if err := c.send(ctx, http.MethodPost, refreshPath, dto.RefreshRequest{RefreshToken: refresh}, &res); err != nil {
		return err
	}
	c.setTokens(res.AccessToken, res.RefreshToken)
	c.logger.Debug("session refreshed")
	return nil
}

func (c *Client) hasCookies() bool {
	if c.http.Jar == nil {
		return false
	}
	req, err := http.NewRequest(http.MethodGet, c.baseURL, nil)
	if err != nil {
		return false
	}
	return len(c.http.Jar.Cookies(req.URL)) > 0
}

// Do sends body as JSON and decodes the envelope's data into out (nil skips it).
// A 401 triggers one refresh and one retry; the retry's error is returned as is.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	err := c.send(ctx, method, path, body, out)
	if !IsUnauthorized(err) || path == refreshPath || path == loginPath {
		return err
	}

	c.logger.Debug("401, refreshing session", zap.String("path", path))
	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.logger.Warn("refresh failed", zap.Error(refreshErr))
		return err
	}
	return c.send(ctx, method, path, body, out)
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("apiclient: marshaling request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("apiclient: creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := env.Message
		if decodeErr != nil || message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}
	if decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		return fmt.Errorf("apiclient: decoding response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("apiclient: decoding data: %w", err)
	}
	return nil
}

// Stream opens a long-lived GET for server-sent events. The caller closes the body.
// A 401 is not retried here; the stream owner decides when to refresh.
func (c *Client) Stream(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: opening stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var env envelope
		message := http.StatusText(resp.StatusCode)
		if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&env) == nil && env.Message != "" {
			message = env.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}
	return resp.Body, nil
}
