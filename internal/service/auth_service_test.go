package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"ticket-marketplace-be/internal/config"
	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/serverutils"
	adminEvents "ticket-marketplace-be/pkg/admin/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:       "test-secret",
	AccessTokenTTL:  time.Minute,
	RefreshTokenTTL: time.Hour,
}

func register(t *testing.T, svc IAuthService, email, role string) *dto.UserDTO {
	t.Helper()
	u, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: email, Password: "password123", FullName: "Test User", Role: role})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	f := newMarketFixture(t)
	svc := NewAuthService(f.factory, f.recorder, f.log, testAuthConfig)

	u := register(t, svc, " New@Example.com ", "organizer")
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, string(entity.UserRoleOrganizer), u.Role)
	assert.Equal(t, []string{adminEvents.UserRegistered}, f.recorder.Types())
	assert.Equal(t, int64(0), f.balance(t, u.Id))

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "new@example.com", Password: "password123", FullName: "Dup"})
	assert.Equal(t, http.StatusConflict, statusOf(err))
}

func TestLoginAndRefresh(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	svc := NewAuthService(f.factory, f.recorder, f.log, testAuthConfig)
	u := register(t, svc, "login@example.com", "")

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "wrong-password"}, "", "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	res, err := svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "password123"}, "127.0.0.1", "test")
	require.NoError(t, err)
	userId, role, err := serverutils.ParseAccessToken(testAuthConfig.JWTSecret, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.Id, userId)
	assert.Equal(t, "user", role)

	rotated, err := svc.Refresh(ctx, res.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, rotated.RefreshToken)

	_, err = svc.Refresh(ctx, res.RefreshToken, "", "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err), "a rotated token cannot be reused")

	require.NoError(t, svc.Logout(ctx, rotated.RefreshToken))
	_, err = svc.Refresh(ctx, rotated.RefreshToken, "", "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestLogin_BlockedAndAdminOnly(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	svc := NewAuthService(f.factory, f.recorder, f.log, testAuthConfig)
	u := register(t, svc, "blocked@example.com", "")

	_, err := svc.LoginAdmin(ctx, &dto.LoginRequest{Email: "blocked@example.com", Password: "password123"}, "", "")
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	require.NoError(t, f.factory.NewUnitOfWork(ctx).UserRepository().UpdateStatus(ctx, u.Id, entity.UserStatusBlocked))
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "blocked@example.com", Password: "password123"}, "", "")
	assert.Equal(t, http.StatusForbidden, statusOf(err))
}
