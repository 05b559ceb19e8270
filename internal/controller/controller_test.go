package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ticket-marketplace-be/internal/config"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/memory"
	"ticket-marketplace-be/internal/service"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/admin/wallet"
	"ticket-marketplace-be/pkg/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthCfg = config.AuthConfig{
	JWTSecret:       "controller-secret",
	AccessTokenTTL:  time.Minute,
	RefreshTokenTTL: time.Hour,
}

type apiFixture struct {
	app      *fiber.App
	store    *memory.Store
	recorder *adminEvents.Recorder
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := logger.NewNopLogger()
	store := memory.NewStore()
	factory := store.Factory()
	recorder := adminEvents.NewRecorder()
	auth := serverutils.JwtMiddleware(testAuthCfg.JWTSecret)

	authService := service.NewAuthService(factory, recorder, log, testAuthCfg)
	bookingService := service.NewBookingService(factory, payment.NewRegistry(), recorder, nil, log, "INR")
	eventService := service.NewEventService(factory, log)
	locationService := service.NewLocationService("", "", log)
	paymentService := service.NewPaymentService(factory, payment.NewRegistry(), recorder, nil, log, "INR")
	userService := service.NewUserService(factory, recorder, log, "INR")

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	api := app.Group("/api")
	NewAuthController(authService, testAuthCfg).RegisterRoutes(api)
	NewEventController(eventService, locationService, bookingService, auth).RegisterRoutes(api)
	NewUserController(userService, bookingService, auth).RegisterRoutes(api)
	NewPaymentController(paymentService, "http://localhost:5173", auth, log).RegisterRoutes(api)

	return &apiFixture{app: app, store: store, recorder: recorder}
}

type apiResponse struct {
	status  int
	cookies []*http.Cookie
	body    map[string]interface{}
	raw     string
}

func (f *apiFixture) call(t *testing.T, method, path, token string, body interface{}, cookies ...*http.Cookie) apiResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := apiResponse{status: resp.StatusCode, cookies: resp.Cookies(), raw: string(raw), body: map[string]interface{}{}}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func (r apiResponse) data() map[string]interface{} {
	d, _ := r.body["data"].(map[string]interface{})
	return d
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// signup registers and logs in, returning the access token and user id.
func (f *apiFixture) signup(t *testing.T, email, role string) (string, uuid.UUID) {
	t.Helper()
	res := f.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "password123", "full_name": "Test Person", "role": role,
	})
	require.Equal(t, http.StatusCreated, res.status, res.raw)

	res = f.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, res.status, res.raw)
	user := res.data()["user"].(map[string]interface{})
	return res.data()["access_token"].(string), uuid.MustParse(user["id"].(string))
}

func TestAuthController_CookieSession(t *testing.T) {
	f := newAPIFixture(t)

	res := f.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "bad", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, res.status)

	f.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "fan@example.com", "password": "password123", "full_name": "Fan Person",
	})
	res = f.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "fan@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, res.status)

	access := cookieNamed(res.cookies, serverutils.AccessTokenCookie)
	refresh := cookieNamed(res.cookies, serverutils.RefreshTokenCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)

	// The access cookie alone authenticates.
	res = f.call(t, http.MethodGet, "/api/user/profile", "", nil, access)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "fan@example.com", res.data()["email"])

	res = f.call(t, http.MethodPost, "/api/auth/refresh", "", nil, refresh)
	require.Equal(t, http.StatusOK, res.status, res.raw)
	rotated := cookieNamed(res.cookies, serverutils.RefreshTokenCookie)
	require.NotNil(t, rotated)
	assert.NotEqual(t, refresh.Value, rotated.Value)

	res = f.call(t, http.MethodPost, "/api/auth/refresh", "", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, res.status)

	res = f.call(t, http.MethodPost, "/api/auth/logout", "", nil, rotated)
	assert.Equal(t, http.StatusOK, res.status)
	cleared := cookieNamed(res.cookies, serverutils.RefreshTokenCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	res = f.call(t, http.MethodPost, "/api/auth/refresh", "", nil, rotated)
	assert.Equal(t, http.StatusUnauthorized, res.status)
}

func TestEventController_OrganizerFlowAndWalletBooking(t *testing.T) {
	f := newAPIFixture(t)
	orgToken, _ := f.signup(t, "org@example.com", "organizer")
	fanToken, fanID := f.signup(t, "fan@example.com", "user")

	starts := time.Now().Add(48 * time.Hour).UTC()
	body := map[string]interface{}{
		"title":        "Rooftop Set",
		"venue":        "Skyline Terrace",
		"starts_at":    starts,
		"ends_at":      starts.Add(3 * time.Hour),
		"ticket_price": 20000,
		"capacity":     5,
	}

	res := f.call(t, http.MethodPost, "/api/event", fanToken, body)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = f.call(t, http.MethodPost, "/api/event", orgToken, body)
	require.Equal(t, http.StatusCreated, res.status, res.raw)
	eventID := res.data()["id"].(string)
	assert.Equal(t, "draft", res.data()["status"])

	res = f.call(t, http.MethodGet, "/api/event", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.EqualValues(t, 0, res.data()["total"])

	res = f.call(t, http.MethodPatch, "/api/event/"+eventID+"/status", orgToken, map[string]string{"status": "published"})
	require.Equal(t, http.StatusOK, res.status, res.raw)

	res = f.call(t, http.MethodGet, "/api/event", "", nil)
	assert.EqualValues(t, 1, res.data()["total"])

	book := map[string]interface{}{"quantity": 2, "payment_method": "wallet"}
	res = f.call(t, http.MethodPost, "/api/event/"+eventID+"/book", fanToken, book)
	assert.Equal(t, http.StatusBadRequest, res.status)

	ctx := context.Background()
	_, _, err := wallet.NewManager().Credit(ctx, f.store.Factory().NewUnitOfWork(ctx), fanID, 50000, "test", "top up")
	require.NoError(t, err)

	res = f.call(t, http.MethodPost, "/api/event/"+eventID+"/book", fanToken, book)
	require.Equal(t, http.StatusCreated, res.status, res.raw)
	booking := res.data()["booking"].(map[string]interface{})
	assert.Equal(t, "confirmed", booking["status"])
	assert.Nil(t, res.data()["checkout"])

	res = f.call(t, http.MethodGet, "/api/event/"+eventID, "", nil)
	assert.EqualValues(t, 3, res.data()["remaining"])

	res = f.call(t, http.MethodGet, "/api/user/wallet", fanToken, nil)
	assert.EqualValues(t, 10000, res.data()["balance"])

	res = f.call(t, http.MethodGet, "/api/event/"+eventID+"/bookings", orgToken, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.EqualValues(t, 1, res.data()["total"])

	res = f.call(t, http.MethodPost, "/api/user/bookings/"+booking["id"].(string)+"/cancel", fanToken, nil)
	require.Equal(t, http.StatusOK, res.status, res.raw)

	res = f.call(t, http.MethodGet, "/api/user/wallet", fanToken, nil)
	assert.EqualValues(t, 50000, res.data()["balance"])
}

func TestEventController_BadInput(t *testing.T) {
	f := newAPIFixture(t)
	fanToken, _ := f.signup(t, "fan@example.com", "")

	res := f.call(t, http.MethodGet, "/api/event/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = f.call(t, http.MethodGet, "/api/event/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = f.call(t, http.MethodGet, "/api/event/location/geocode", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = f.call(t, http.MethodPost, "/api/event/"+uuid.NewString()+"/book", fanToken, map[string]interface{}{"quantity": 0, "payment_method": "wallet"})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = f.call(t, http.MethodPost, "/api/event/"+uuid.NewString()+"/book", fanToken, map[string]interface{}{"quantity": 1, "payment_method": "stripe"})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Contains(t, res.body["message"], "not available")
}

func TestPaymentController_StripeReturnPage(t *testing.T) {
	f := newAPIFixture(t)

	res := f.call(t, http.MethodGet, "/api/payment/stripe/return?session_id=cs_test_%3Cscript%3E", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.raw, `type: "stripe-session"`)
	assert.Contains(t, res.raw, `sessionId: "cs_test_\u003cscript\u003e"`)
	assert.NotContains(t, res.raw, "cs_test_<script>")
	assert.Contains(t, res.raw, `postMessage(msg, "http://localhost:5173")`)
	assert.Contains(t, res.raw, "window.close()")

	res = f.call(t, http.MethodGet, "/api/payment/stripe/return", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.status)
}

func TestPaymentController_UnconfiguredProviders(t *testing.T) {
	f := newAPIFixture(t)
	token, _ := f.signup(t, "fan@example.com", "")

	res := f.call(t, http.MethodPost, "/api/payment/razorpay/verify", token, map[string]string{"order_id": "o", "payment_id": "p", "signature": "s"})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = f.call(t, http.MethodPost, "/api/payment/midtrans/notification", "", map[string]string{"order_id": "x"})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = f.call(t, http.MethodPost, "/api/payment/coupon/validate", "", map[string]interface{}{"code": "X", "amount": 1})
	assert.Equal(t, http.StatusUnauthorized, res.status)
}
