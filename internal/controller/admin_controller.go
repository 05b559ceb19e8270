package controller

import (
	"ticket-marketplace-be/internal/config"
	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error

	// Dashboard
	GetDashboardStats(ctx *fiber.Ctx) error
	GetRevenue(ctx *fiber.Ctx) error
	GetTopEvents(ctx *fiber.Ctx) error

	// Moderation
	GetReports(ctx *fiber.Ctx) error
	GetReport(ctx *fiber.Ctx) error
	UpdateReportStatus(ctx *fiber.Ctx) error
	DeleteReport(ctx *fiber.Ctx) error

	// Catalog
	GetCategories(ctx *fiber.Ctx) error
	CreateCategory(ctx *fiber.Ctx) error
	UpdateCategory(ctx *fiber.Ctx) error
	DeleteCategory(ctx *fiber.Ctx) error
	GetCoupons(ctx *fiber.Ctx) error
	CreateCoupon(ctx *fiber.Ctx) error
	UpdateCoupon(ctx *fiber.Ctx) error
	DeleteCoupon(ctx *fiber.Ctx) error

	// Users
	GetUsers(ctx *fiber.Ctx) error
	GetUser(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
	DeleteUser(ctx *fiber.Ctx) error

	// Bookings, feature requests, wallets
	GetBookings(ctx *fiber.Ctx) error
	GetFeatureRequests(ctx *fiber.Ctx) error
	UpdateFeatureRequestStatus(ctx *fiber.Ctx) error
	DeleteFeatureRequest(ctx *fiber.Ctx) error
	CreditWallet(ctx *fiber.Ctx) error
	Broadcast(ctx *fiber.Ctx) error

	// Logs
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service     service.IAdminService
	authService service.IAuthService
	authCfg     config.AuthConfig
	auth        fiber.Handler
}

func NewAdminController(service service.IAdminService, authService service.IAuthService, authCfg config.AuthConfig, auth fiber.Handler) IAdminController {
	return &adminController{service: service, authService: authService, authCfg: authCfg, auth: auth}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")

	// Public Admin Route (Login)
	h.Post("/login", c.Login)

	// Protected Routes
	h.Use(c.auth, serverutils.RequireRole(string(entity.UserRoleAdmin)))

	// Dashboard
	h.Get("/dashboard", c.GetDashboardStats)
	h.Get("/analytics/revenue", c.GetRevenue)
	h.Get("/analytics/top-events", c.GetTopEvents)

	// Moderation
	h.Get("/reports", c.GetReports)
	h.Get("/reports/:id", c.GetReport)
	h.Patch("/reports/:id/status", c.UpdateReportStatus)
	h.Delete("/reports/:id", c.DeleteReport)

	// Catalog
	h.Get("/categories", c.GetCategories)
	h.Post("/categories", c.CreateCategory)
	h.Put("/categories/:id", c.UpdateCategory)
	h.Delete("/categories/:id", c.DeleteCategory)
	h.Get("/coupons", c.GetCoupons)
	h.Post("/coupons", c.CreateCoupon)
	h.Put("/coupons/:id", c.UpdateCoupon)
	h.Delete("/coupons/:id", c.DeleteCoupon)

	// Users
	h.Get("/users", c.GetUsers)
	h.Get("/users/:id", c.GetUser)
	h.Patch("/users/:id/status", c.UpdateUserStatus)
	h.Delete("/users/:id", c.DeleteUser)

	// Bookings & feature requests
	h.Get("/bookings", c.GetBookings)
	h.Get("/feature-requests", c.GetFeatureRequests)
	h.Patch("/feature-requests/:id/status", c.UpdateFeatureRequestStatus)
	h.Delete("/feature-requests/:id", c.DeleteFeatureRequest)

	// Wallets & notifications
	h.Post("/wallets/:userId/credit", c.CreditWallet)
	h.Post("/notifications/broadcast", c.Broadcast)

	// Logs
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.LoginAdmin(ctx.UserContext(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return err
	}
	setSessionCookies(ctx, c.authCfg, res)
	return ctx.JSON(serverutils.SuccessResponse("Admin login successful", res))
}

// ============================================================================
// Dashboard
// ============================================================================

func (c *adminController) GetDashboardStats(ctx *fiber.Ctx) error {
	res, err := c.service.GetDashboardStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", res))
}

func (c *adminController) GetRevenue(ctx *fiber.Ctx) error {
	res, err := c.service.GetRevenue(ctx.UserContext(), ctx.QueryInt("months", 6))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Revenue", res))
}

func (c *adminController) GetTopEvents(ctx *fiber.Ctx) error {
	res, err := c.service.GetTopEvents(ctx.UserContext(), ctx.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Top events", res))
}

// ============================================================================
// Moderation
// ============================================================================

func (c *adminController) GetReports(ctx *fiber.Ctx) error {
	var req dto.ReportListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.GetReports(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reports", res))
}

func (c *adminController) GetReport(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "report ID")
	if err != nil {
		return err
	}
	res, err := c.service.GetReport(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Report", res))
}

func (c *adminController) UpdateReportStatus(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id", "report ID")
	if err != nil {
		return err
	}
	var req dto.UpdateReportStatusRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.UpdateReportStatus(ctx.UserContext(), adminId, id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Report updated", res))
}

func (c *adminController) DeleteReport(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "report ID")
	if err != nil {
		return err
	}
	if err := c.service.DeleteReport(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Report deleted", nil))
}

// ============================================================================
// Catalog
// ============================================================================

func (c *adminController) GetCategories(ctx *fiber.Ctx) error {
	var q dto.PageQuery
	if err := ctx.QueryParser(&q); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.GetCategories(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Categories", res))
}

func (c *adminController) CreateCategory(ctx *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.CreateCategory(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Category created", res))
}

func (c *adminController) UpdateCategory(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "category ID")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.UpdateCategory(ctx.UserContext(), id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Category updated", res))
}

func (c *adminController) DeleteCategory(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "category ID")
	if err != nil {
		return err
	}
	if err := c.service.DeleteCategory(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Category deleted", nil))
}

func (c *adminController) GetCoupons(ctx *fiber.Ctx) error {
	var q dto.PageQuery
	if err := ctx.QueryParser(&q); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.GetCoupons(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Coupons", res))
}

func (c *adminController) CreateCoupon(ctx *fiber.Ctx) error {
	var req dto.CouponRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.CreateCoupon(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Coupon created", res))
}

func (c *adminController) UpdateCoupon(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "coupon ID")
	if err != nil {
		return err
	}
	var req dto.CouponRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.UpdateCoupon(ctx.UserContext(), id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Coupon updated", res))
}

func (c *adminController) DeleteCoupon(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "coupon ID")
	if err != nil {
		return err
	}
	if err := c.service.DeleteCoupon(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Coupon deleted", nil))
}

// ============================================================================
// Users
// ============================================================================

func (c *adminController) GetUsers(ctx *fiber.Ctx) error {
	var req dto.AdminUserListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.GetUsers(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", res))
}

func (c *adminController) GetUser(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "user ID")
	if err != nil {
		return err
	}
	res, err := c.service.GetUser(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User", res))
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id", "user ID")
	if err != nil {
		return err
	}
	var req dto.UpdateUserStatusRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.UpdateUserStatus(ctx.UserContext(), adminId, id, req.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User status updated", res))
}

func (c *adminController) DeleteUser(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id", "user ID")
	if err != nil {
		return err
	}
	if err := c.service.DeleteUser(ctx.UserContext(), adminId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User deleted", nil))
}

// ============================================================================
// Bookings, Feature Requests, Wallets
// ============================================================================

func (c *adminController) GetBookings(ctx *fiber.Ctx) error {
	var req dto.AdminBookingListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.GetBookings(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bookings", res))
}

func (c *adminController) GetFeatureRequests(ctx *fiber.Ctx) error {
	var req dto.FeatureRequestListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.GetFeatureRequests(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Feature requests", res))
}

func (c *adminController) UpdateFeatureRequestStatus(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "feature request ID")
	if err != nil {
		return err
	}
	var req dto.UpdateFeatureRequestStatusRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.UpdateFeatureRequestStatus(ctx.UserContext(), id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Feature request updated", res))
}

func (c *adminController) DeleteFeatureRequest(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "feature request ID")
	if err != nil {
		return err
	}
	if err := c.service.DeleteFeatureRequest(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Feature request deleted", nil))
}

func (c *adminController) CreditWallet(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	userId, err := paramUUID(ctx, "userId", "user ID")
	if err != nil {
		return err
	}
	var req dto.WalletCreditRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.CreditWallet(ctx.UserContext(), adminId, userId, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Wallet credited", res))
}

func (c *adminController) Broadcast(ctx *fiber.Ctx) error {
	adminId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.BroadcastRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := c.service.Broadcast(ctx.UserContext(), adminId, req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Broadcast queued", nil))
}

// ============================================================================
// Logs
// ============================================================================

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	var req dto.LogListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.GetSystemLogs(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	res, err := c.service.GetLogDetail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", res))
}
