package service

import (
	"context"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	"ticket-marketplace-be/pkg/admin/category"
	"ticket-marketplace-be/pkg/admin/coupon"
	"ticket-marketplace-be/pkg/admin/dashboard"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/admin/feature"
	"ticket-marketplace-be/pkg/admin/mapper"
	"ticket-marketplace-be/pkg/admin/report"
	"ticket-marketplace-be/pkg/admin/user"
	"ticket-marketplace-be/pkg/admin/wallet"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStats, error)
	GetRevenue(ctx context.Context, months int) ([]dto.RevenuePoint, error)
	GetTopEvents(ctx context.Context, limit int) ([]dto.TopEventResponse, error)

	// Moderation
	GetReports(ctx context.Context, req dto.ReportListRequest) (*dto.Page[dto.ReportResponse], error)
	GetReport(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error)
	UpdateReportStatus(ctx context.Context, adminId, id uuid.UUID, req dto.UpdateReportStatusRequest) (*dto.ReportResponse, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error

	// Catalog
	GetCategories(ctx context.Context, q dto.PageQuery) (*dto.Page[dto.CategoryResponse], error)
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCoupons(ctx context.Context, q dto.PageQuery) (*dto.Page[dto.CouponResponse], error)
	CreateCoupon(ctx context.Context, req dto.CouponRequest) (*dto.CouponResponse, error)
	UpdateCoupon(ctx context.Context, id uuid.UUID, req dto.CouponRequest) (*dto.CouponResponse, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error

	// User Management
	GetUsers(ctx context.Context, req dto.AdminUserListRequest) (*dto.Page[dto.UserDTO], error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserDTO, error)
	UpdateUserStatus(ctx context.Context, adminId, id uuid.UUID, status string) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, adminId, id uuid.UUID) error

	// Bookings and feature requests
	GetBookings(ctx context.Context, req dto.AdminBookingListRequest) (*dto.Page[dto.BookingResponse], error)
	GetFeatureRequests(ctx context.Context, req dto.FeatureRequestListRequest) (*dto.Page[dto.FeatureRequestResponse], error)
	UpdateFeatureRequestStatus(ctx context.Context, id uuid.UUID, req dto.UpdateFeatureRequestStatusRequest) (*dto.FeatureRequestResponse, error)
	DeleteFeatureRequest(ctx context.Context, id uuid.UUID) error

	// Wallets and broadcast
	CreditWallet(ctx context.Context, adminId, userId uuid.UUID, req dto.WalletCreditRequest) (*dto.WalletResponse, error)
	Broadcast(ctx context.Context, adminId uuid.UUID, req dto.BroadcastRequest) error

	// Logs
	GetSystemLogs(ctx context.Context, req dto.LogListRequest) (*dto.Page[dto.LogListResponse], error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	currency   string

	// Domain Components
	userManager         *user.Manager
	reportManager       *report.Manager
	categoryManager     *category.Manager
	couponManager       *coupon.Manager
	featureManager      *feature.Manager
	walletManager       *wallet.Manager
	dashboardAggregator *dashboard.Aggregator
	eventPublisher      adminEvents.Publisher
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	eventPublisher adminEvents.Publisher,
	currency string,
) IAdminService {
	return &adminService{
		uowFactory:          uowFactory,
		logger:              logger,
		currency:            currency,
		userManager:         user.NewManager(logger, eventPublisher),
		reportManager:       report.NewManager(logger, eventPublisher),
		categoryManager:     category.NewManager(),
		couponManager:       coupon.NewManager(),
		featureManager:      feature.NewManager(eventPublisher),
		walletManager:       wallet.NewManager(),
		dashboardAggregator: dashboard.NewAggregator(logger),
		eventPublisher:      eventPublisher,
	}
}

// ============================================================================
// Dashboard & Stats
// ============================================================================

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stats, err := s.dashboardAggregator.GetStats(ctx, uow)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardStats{
		TotalUsers:     stats.TotalUsers,
		TotalEvents:    stats.TotalEvents,
		TotalBookings:  stats.TotalBookings,
		TotalRevenue:   stats.TotalRevenue,
		OpenReports:    stats.OpenReports,
		RecentBookings: mapper.BookingsToResponse(stats.RecentBookings),
	}, nil
}

func (s *adminService) GetRevenue(ctx context.Context, months int) ([]dto.RevenuePoint, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := s.dashboardAggregator.Revenue(ctx, uow, months)
	if err != nil {
		return nil, err
	}
	return mapper.RevenueToResponse(rows), nil
}

func (s *adminService) GetTopEvents(ctx context.Context, limit int) ([]dto.TopEventResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := s.dashboardAggregator.TopEvents(ctx, uow, limit)
	if err != nil {
		return nil, err
	}
	return mapper.TopEventsToResponse(rows), nil
}

// ============================================================================
// Moderation
// ============================================================================

func (s *adminService) GetReports(ctx context.Context, req dto.ReportListRequest) (*dto.Page[dto.ReportResponse], error) {
	req.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	reports, total, err := s.reportManager.List(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(mapper.ReportsToResponse(reports), total, req.PageQuery)
	return &page, nil
}

func (s *adminService) GetReport(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	r, err := s.reportManager.Get(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	res := mapper.ReportToResponse(r)
	return &res, nil
}

func (s *adminService) UpdateReportStatus(ctx context.Context, adminId, id uuid.UUID, req dto.UpdateReportStatusRequest) (*dto.ReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	r, err := s.reportManager.UpdateStatus(ctx, uow, id, adminId, req)
	if err != nil {
		return nil, err
	}
	res := mapper.ReportToResponse(r)
	return &res, nil
}

func (s *adminService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.reportManager.Delete(ctx, uow, id)
}

// ============================================================================
// Catalog
// ============================================================================

func (s *adminService) GetCategories(ctx context.Context, q dto.PageQuery) (*dto.Page[dto.CategoryResponse], error) {
	q.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := s.categoryManager.List(ctx, uow, q)
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(mapper.CategoriesToResponse(items), total, q)
	return &page, nil
}

func (s *adminService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := s.categoryManager.Create(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	res := mapper.CategoryToResponse(c)
	return &res, nil
}

func (s *adminService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := s.categoryManager.Update(ctx, uow, id, req)
	if err != nil {
		return nil, err
	}
	res := mapper.CategoryToResponse(c)
	return &res, nil
}

func (s *adminService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.categoryManager.Delete(ctx, uow, id)
}

func (s *adminService) GetCoupons(ctx context.Context, q dto.PageQuery) (*dto.Page[dto.CouponResponse], error) {
	q.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := s.couponManager.List(ctx, uow, q)
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(mapper.CouponsToResponse(items), total, q)
	return &page, nil
}

func (s *adminService) CreateCoupon(ctx context.Context, req dto.CouponRequest) (*dto.CouponResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := s.couponManager.Create(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	res := mapper.CouponToResponse(c)
	return &res, nil
}

func (s *adminService) UpdateCoupon(ctx context.Context, id uuid.UUID, req dto.CouponRequest) (*dto.CouponResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, err := s.couponManager.Update(ctx, uow, id, req)
	if err != nil {
		return nil, err
	}
	res := mapper.CouponToResponse(c)
	return &res, nil
}

func (s *adminService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.couponManager.Delete(ctx, uow, id)
}

// ============================================================================
// User Management
// ============================================================================

func (s *adminService) GetUsers(ctx context.Context, req dto.AdminUserListRequest) (*dto.Page[dto.UserDTO], error) {
	req.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, total, err := s.userManager.FindAll(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(mapper.UsersToDTO(users), total, req.PageQuery)
	return &page, nil
}

func (s *adminService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	u, err := s.userManager.Get(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	res := mapper.UserToDTO(u)
	return &res, nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, adminId, id uuid.UUID, status string) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	u, err := s.userManager.UpdateStatus(ctx, uow, adminId, id, entity.UserStatus(status))
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	res := mapper.UserToDTO(u)
	return &res, nil
}

func (s *adminService) DeleteUser(ctx context.Context, adminId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.userManager.Delete(ctx, uow, adminId, id)
}

// ============================================================================
// Bookings & Feature Requests
// ============================================================================

func (s *adminService) GetBookings(ctx context.Context, req dto.AdminBookingListRequest) (*dto.Page[dto.BookingResponse], error) {
	req.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	filters := []specification.Specification{
		specification.ByStatus{Status: req.Status},
		specification.Search{Fields: []string{"payment_reference", "coupon_code"}, Term: req.Search},
	}
	total, err := uow.BookingRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	bookings, err := uow.BookingRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(req.Page, req.Limit),
	)...)
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(mapper.BookingsToResponse(bookings), total, req.PageQuery)
	return &page, nil
}

func (s *adminService) GetFeatureRequests(ctx context.Context, req dto.FeatureRequestListRequest) (*dto.Page[dto.FeatureRequestResponse], error) {
	req.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := s.featureManager.List(ctx, uow, nil, req)
	if err != nil {
		return nil, err
	}
	page := dto.NewPage(mapper.FeatureRequestsToResponse(items), total, req.PageQuery)
	return &page, nil
}

func (s *adminService) UpdateFeatureRequestStatus(ctx context.Context, id uuid.UUID, req dto.UpdateFeatureRequestStatusRequest) (*dto.FeatureRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	f, err := s.featureManager.UpdateStatus(ctx, uow, id, req)
	if err != nil {
		return nil, err
	}
	res := mapper.FeatureRequestToResponse(f)
	return &res, nil
}

func (s *adminService) DeleteFeatureRequest(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.featureManager.Delete(ctx, uow, id)
}

// ============================================================================
// Wallets & Broadcast
// ============================================================================

func (s *adminService) CreditWallet(ctx context.Context, adminId, userId uuid.UUID, req dto.WalletCreditRequest) (*dto.WalletResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.userManager.Get(ctx, uow, userId); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	description := req.Description
	if description == "" {
		description = "Credit from support"
	}
	w, tx, err := s.walletManager.Credit(ctx, uow, userId, req.Amount, "admin:"+adminId.String(), description)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ADMIN", "Wallet credited", map[string]interface{}{
		"userId": userId.String(),
		"amount": req.Amount,
		"by":     adminId.String(),
	})
	s.eventPublisher.PublishWalletCredited(ctx, userId, tx.Id, tx.Amount, w.Balance, description)

	res := mapper.WalletToResponse(w, s.currency)
	return &res, nil
}

func (s *adminService) Broadcast(ctx context.Context, adminId uuid.UUID, req dto.BroadcastRequest) error {
	s.logger.Info("ADMIN", "Broadcast sent", map[string]interface{}{"title": req.Title, "by": adminId.String()})
	s.eventPublisher.PublishBroadcast(ctx, adminId, req.Title, req.Message)
	return nil
}

// ============================================================================
// Logs
// ============================================================================

func (s *adminService) GetSystemLogs(ctx context.Context, req dto.LogListRequest) (*dto.Page[dto.LogListResponse], error) {
	q := dto.PageQuery{Page: req.Page, Limit: req.Limit}
	q.Normalize()

	entries, total, err := s.logger.GetLogs(req.Level, q.Limit, q.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, mapper.LogToListResponse(e))
	}
	page := dto.NewPage(items, int64(total), q)
	return &page, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, serverutils.NotFound("Log entry not found")
	}
	res := mapper.LogToDetailResponse(*entry)
	return &res, nil
}
