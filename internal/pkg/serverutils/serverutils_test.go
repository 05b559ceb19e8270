package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ticket-marketplace-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/", handler)
	return app
}

func decode(t *testing.T, body io.Reader) BaseResponse[any] {
	t.Helper()
	var res BaseResponse[any]
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func TestErrorHandlerMiddleware(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"bad request", BadRequest("already reported"), 400, "already reported"},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("Report not found")), 404, "Report not found"},
		{"conflict", Conflict("Category already exists"), 409, "Category already exists"},
		{"fiber error", fiber.NewError(fiber.StatusForbidden, "nope"), 403, "nope"},
		{"validation", ValidateRequest(payload{Email: "x"}), 400, "email must be a valid email"},
		{"unique violation", &pgconn.PgError{Code: "23505"}, 409, "Resource already exists"},
		{"unknown error hides cause", errors.New("dial tcp: connection refused"), 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(func(c *fiber.Ctx) error { return tt.err })
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Nil(t, body.Data)
		})
	}
}

func TestSuccessResponse_OmitsEmptyData(t *testing.T) {
	raw, err := json.Marshal(SuccessResponse[any]("ok", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":200,"message":"ok"}`, string(raw))

	raw, err = json.Marshal(CreatedResponse("created", map[string]int{"n": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":201,"message":"created","data":{"n":1}}`, string(raw))
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Reason   string `validate:"required"`
		Quantity int    `validate:"gt=0"`
	}

	assert.NoError(t, ValidateRequest(req{Reason: "spam", Quantity: 1}))

	err := ValidateRequest(req{Quantity: 1})
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "reason is required", appErr.Message)

	err = ValidateRequest(req{Reason: "spam"})
	appErr, _ = AsAppError(err)
	assert.Equal(t, "quantity must be greater than 0", appErr.Message)
}

func TestJwtMiddleware(t *testing.T) {
	secret := "test_secret"
	userID := uuid.New()
	token, _, err := GenerateAccessToken(secret, userID, "admin", time.Minute)
	require.NoError(t, err)
	expired, _, err := GenerateAccessToken(secret, userID, "admin", -time.Minute)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(JwtMiddleware(secret))
	app.Get("/admin", RequireRole("admin"), func(c *fiber.Ctx) error {
		id, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})
	app.Get("/organizer", RequireRole("organizer"), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	tests := []struct {
		name   string
		path   string
		setup  func(r *fiberRequest)
		status int
	}{
		{"missing token", "/admin", func(r *fiberRequest) {}, 401},
		{"bearer header", "/admin", func(r *fiberRequest) { r.header = "Bearer " + token }, 200},
		{"cookie", "/admin", func(r *fiberRequest) { r.cookie = token }, 200},
		{"query param", "/admin?token=" + token, func(r *fiberRequest) {}, 200},
		{"expired", "/admin", func(r *fiberRequest) { r.header = "Bearer " + expired }, 401},
		{"wrong secret", "/admin", func(r *fiberRequest) { r.header = "Bearer " + signWith(t, "other", userID) }, 401},
		{"wrong role", "/organizer", func(r *fiberRequest) { r.header = "Bearer " + token }, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &fiberRequest{}
			tt.setup(fr)
			req := httptest.NewRequest("GET", tt.path, nil)
			if fr.header != "" {
				req.Header.Set("Authorization", fr.header)
			}
			if fr.cookie != "" {
				req.Header.Set("Cookie", AccessTokenCookie+"="+fr.cookie)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == 200 && tt.path != "/organizer" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, userID.String(), string(body))
			}
		})
	}
}

type fiberRequest struct {
	header string
	cookie string
}

func signWith(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	tok, _, err := GenerateAccessToken(secret, userID, "admin", time.Minute)
	require.NoError(t, err)
	return tok
}

func TestParseAccessToken(t *testing.T) {
	userID := uuid.New()
	tok, _, err := GenerateAccessToken("s", userID, "organizer", time.Minute)
	require.NoError(t, err)

	gotID, role, err := ParseAccessToken("s", tok)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "organizer", role)

	_, _, err = ParseAccessToken("s", "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
