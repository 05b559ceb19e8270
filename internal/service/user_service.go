package service

import (
	"context"
	"strings"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/admin/feature"
	"ticket-marketplace-be/pkg/admin/mapper"
	"ticket-marketplace-be/pkg/admin/report"
	"ticket-marketplace-be/pkg/admin/wallet"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserDTO, error)

	// Moderation
	ReportUser(ctx context.Context, reporterId uuid.UUID, req *dto.CreateReportRequest) (*dto.ReportResponse, error)

	// Feature requests
	CreateFeatureRequest(ctx context.Context, userId uuid.UUID, req *dto.CreateFeatureRequestRequest) (*dto.FeatureRequestResponse, error)
	GetFeatureRequests(ctx context.Context, userId uuid.UUID, q dto.PageQuery) (*dto.Page[dto.FeatureRequestResponse], error)

	// Wallet
	GetWallet(ctx context.Context, userId uuid.UUID) (*dto.WalletResponse, error)
	GetWalletTransactions(ctx context.Context, userId uuid.UUID, q dto.PageQuery) (*dto.Page[dto.WalletTransactionResponse], error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	reports    *report.Manager
	features   *feature.Manager
	wallets    *wallet.Manager
	logger     logger.ILogger
	currency   string
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, publisher adminEvents.Publisher, logger logger.ILogger, currency string) IUserService {
	return &userService{
		uowFactory: uowFactory,
		reports:    report.NewManager(logger, publisher),
		features:   feature.NewManager(publisher),
		wallets:    wallet.NewManager(),
		logger:     logger,
		currency:   currency,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("User not found")
	}
	res := mapper.UserToDTO(user)
	return &res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.NotFound("User not found")
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.Phone = strings.TrimSpace(req.Phone)
	if req.AvatarURL != "" {
		avatar := req.AvatarURL
		user.AvatarURL = &avatar
	}
	user.UpdatedAt = time.Now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	res := mapper.UserToDTO(user)
	return &res, nil
}

func (s *userService) ReportUser(ctx context.Context, reporterId uuid.UUID, req *dto.CreateReportRequest) (*dto.ReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	r, err := s.reports.Create(ctx, uow, reporterId, *req)
	if err != nil {
		return nil, err
	}
	res := mapper.ReportToResponse(r)
	return &res, nil
}

func (s *userService) CreateFeatureRequest(ctx context.Context, userId uuid.UUID, req *dto.CreateFeatureRequestRequest) (*dto.FeatureRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	f, err := s.features.Create(ctx, uow, userId, *req)
	if err != nil {
		return nil, err
	}
	res := mapper.FeatureRequestToResponse(f)
	return &res, nil
}

func (s *userService) GetFeatureRequests(ctx context.Context, userId uuid.UUID, q dto.PageQuery) (*dto.Page[dto.FeatureRequestResponse], error) {
	q.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := s.features.List(ctx, uow, &userId, dto.FeatureRequestListRequest{PageQuery: q})
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(mapper.FeatureRequestsToResponse(items), total, q)
	return &page, nil
}

func (s *userService) GetWallet(ctx context.Context, userId uuid.UUID) (*dto.WalletResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	w, err := s.wallets.ForUser(ctx, uow, userId, false)
	if err != nil {
		return nil, err
	}
	res := mapper.WalletToResponse(w, s.currency)
	return &res, nil
}

func (s *userService) GetWalletTransactions(ctx context.Context, userId uuid.UUID, q dto.PageQuery) (*dto.Page[dto.WalletTransactionResponse], error) {
	q.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := s.wallets.Transactions(ctx, uow, userId, q)
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(mapper.WalletTransactionsToResponse(items), total, q)
	return &page, nil
}
