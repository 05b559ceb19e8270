package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"ticket-marketplace-be/internal/config"
	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/admin/mapper"
	"ticket-marketplace-be/pkg/admin/wallet"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserDTO, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	LoginAdmin(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	wallets    *wallet.Manager
	publisher  adminEvents.Publisher
	logger     logger.ILogger
	cfg        config.AuthConfig
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, publisher adminEvents.Publisher, logger logger.ILogger, cfg config.AuthConfig) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		wallets:    wallet.NewManager(),
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// issueSession signs an access token and stores a new hashed refresh token.
func issueSession(ctx context.Context, uow unitofwork.UnitOfWork, cfg config.AuthConfig, user *entity.User, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	accessToken, accessExp, err := serverutils.GenerateAccessToken(cfg.JWTSecret, user.Id, string(user.Role), cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	raw := uuid.New().String() + uuid.New().String()
	now := time.Now()
	refresh := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(raw),
		ExpiresAt: now.Add(cfg.RefreshTokenTTL),
		CreatedAt: now,
		IpAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, refresh); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:      accessToken,
		RefreshToken:     raw,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refresh.ExpiresAt,
		User:             mapper.UserToDTO(user),
	}, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	role := entity.UserRoleUser
	if req.Role == string(entity.UserRoleOrganizer) {
		role = entity.UserRoleOrganizer
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        req.Phone,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if serverutils.IsUniqueViolation(err) {
			return nil, serverutils.Conflict("Email already registered")
		}
		return nil, err
	}
	if _, err := s.wallets.ForUser(ctx, uow, user.Id, false); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id.String(), "role": string(role)})
	s.publisher.PublishUserRegistered(ctx, user.Id, user.Email, user.FullName, string(role))

	res := mapper.UserToDTO(user)
	return &res, nil
}

// authenticate checks credentials. Every mismatch gets the same message.
func (s *authService) authenticate(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.LoginRequest) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: strings.ToLower(strings.TrimSpace(req.Email))})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.Unauthorized("Invalid credentials")
	}
	if user.PasswordHash == nil {
		return nil, serverutils.BadRequest("This account signs in with Google")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.Unauthorized("Invalid credentials")
	}
	if user.IsBlocked() {
		return nil, serverutils.Forbidden("Account is blocked")
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.authenticate(ctx, uow, req)
	if err != nil {
		return nil, err
	}

	res, err := issueSession(ctx, uow, s.cfg, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AUTH", "User logged in", map[string]interface{}{"user_id": user.Id.String(), "ip": ipAddress})
	return res, nil
}

func (s *authService) LoginAdmin(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.authenticate(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.UserRoleAdmin {
		return nil, serverutils.Forbidden("Access denied: admins only")
	}

	res, err := issueSession(ctx, uow, s.cfg, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AUTH", "Admin logged in", map[string]interface{}{"user_id": user.Id.String(), "ip": ipAddress})
	return res, nil
}

// Refresh rotates the refresh token: the presented one is revoked and a new pair issued.
func (s *authService) Refresh(ctx context.Context, refreshToken, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	if refreshToken == "" {
		return nil, serverutils.Unauthorized("Missing refresh token")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	hash := hashToken(refreshToken)
	stored, err := uow.UserRepository().FindRefreshToken(ctx, specification.ByTokenHash{Hash: hash})
	if err != nil {
		return nil, err
	}
	if stored == nil || !stored.IsUsable(time.Now()) {
		return nil, serverutils.Unauthorized("Invalid or expired refresh token")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: stored.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsBlocked() {
		return nil, serverutils.Unauthorized("Invalid or expired refresh token")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().RevokeRefreshToken(ctx, hash); err != nil {
		return nil, err
	}
	res, err := issueSession(ctx, uow, s.cfg, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().RevokeRefreshToken(ctx, hashToken(refreshToken))
}
