package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ticket-marketplace-be/internal/config"
	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/memory"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/admin/wallet"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type IOAuthService interface {
	GetLoginURL(provider, returnTo string) (string, error)
	HandleCallback(ctx context.Context, provider, code, state, ipAddress, userAgent string) (*dto.LoginResponse, string, error)
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
	states     *memory.OAuthStateRepository
	wallets    *wallet.Manager
	publisher  adminEvents.Publisher
	logger     logger.ILogger
	authCfg    config.AuthConfig
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, states *memory.OAuthStateRepository, publisher adminEvents.Publisher, logger logger.ILogger, cfg *config.Config) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.Keys.GoogleClientID,
		ClientSecret: cfg.Keys.GoogleClientSecret,
		RedirectURL:  cfg.Keys.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
		states:     states,
		wallets:    wallet.NewManager(),
		publisher:  publisher,
		logger:     logger,
		authCfg:    cfg.Auth,
	}
}

func (s *oauthService) GetLoginURL(provider, returnTo string) (string, error) {
	if provider != "google" {
		return "", serverutils.BadRequest("Unsupported provider")
	}
	if s.googleConf.ClientID == "" {
		return "", serverutils.Unavailable("Google sign-in is not configured", nil)
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(b)
	s.states.Save(&memory.OAuthState{State: state, ReturnTo: returnTo, CreatedAt: time.Now()})

	return s.googleConf.AuthCodeURL(state), nil
}

// HandleCallback returns the session and the return path saved with the state.
func (s *oauthService) HandleCallback(ctx context.Context, provider, code, state, ipAddress, userAgent string) (*dto.LoginResponse, string, error) {
	if provider != "google" {
		return nil, "", serverutils.BadRequest("Unsupported provider")
	}
	saved, ok := s.states.Consume(state)
	if !ok {
		return nil, "", serverutils.BadRequest("Invalid or expired OAuth state")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, "", serverutils.Unauthorized(fmt.Sprintf("Code exchange failed: %v", err))
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, "", err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findOrCreate(ctx, uow, profile)
	if err != nil {
		return nil, "", err
	}
	if user.IsBlocked() {
		return nil, "", serverutils.Forbidden("Account is blocked")
	}

	res, err := issueSession(ctx, uow, s.authCfg, user, ipAddress, userAgent)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("AUTH", "Google login", map[string]interface{}{"user_id": user.Id.String()})
	return res, saved.ReturnTo, nil
}

func (s *oauthService) fetchProfile(ctx context.Context, token *oauth2.Token) (*googleUser, error) {
	resp, err := s.googleConf.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned %d", resp.StatusCode)
	}

	var profile googleUser
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, serverutils.BadRequest("Google account has no email")
	}
	return &profile, nil
}

// findOrCreate links the Google identity to an existing account by email
// or creates a fresh user with a wallet.
func (s *oauthService) findOrCreate(ctx context.Context, uow unitofwork.UnitOfWork, profile *googleUser) (*entity.User, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	email := strings.ToLower(profile.Email)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}

	created := false
	if user == nil {
		now := time.Now()
		user = &entity.User{
			Id:        uuid.New(),
			Email:     email,
			FullName:  profile.Name,
			Role:      entity.UserRoleUser,
			Status:    entity.UserStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if profile.Picture != "" {
			user.AvatarURL = &profile.Picture
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, err
		}
		if _, err := s.wallets.ForUser(ctx, uow, user.Id, false); err != nil {
			return nil, err
		}
		created = true
	}

	provider, err := uow.UserRepository().FindUserProvider(ctx, specification.ByProvider{Name: "google", ProviderUserID: profile.ID})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		provider = &entity.UserProvider{
			Id:             uuid.New(),
			UserId:         user.Id,
			ProviderName:   "google",
			ProviderUserId: profile.ID,
			CreatedAt:      time.Now(),
		}
	}
	provider.AvatarURL = profile.Picture
	if err := uow.UserRepository().SaveUserProvider(ctx, provider); err != nil {
		return nil, fmt.Errorf("failed to save provider info: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	if created {
		s.publisher.PublishUserRegistered(ctx, user.Id, user.Email, user.FullName, string(user.Role))
	}
	return user, nil
}
