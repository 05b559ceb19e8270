package controller

import (
	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	GetBookings(ctx *fiber.Ctx) error
	CancelBooking(ctx *fiber.Ctx) error
	ReportUser(ctx *fiber.Ctx) error
	CreateFeatureRequest(ctx *fiber.Ctx) error
	GetFeatureRequests(ctx *fiber.Ctx) error
	GetWallet(ctx *fiber.Ctx) error
	GetWalletTransactions(ctx *fiber.Ctx) error
}

type userController struct {
	service  service.IUserService
	bookings service.IBookingService
	auth     fiber.Handler
}

func NewUserController(service service.IUserService, bookings service.IBookingService, auth fiber.Handler) IUserController {
	return &userController{service: service, bookings: bookings, auth: auth}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user")
	h.Use(c.auth)
	h.Get("/profile", c.GetProfile)
	h.Put("/profile", c.UpdateProfile)

	// Bookings
	h.Get("/bookings", c.GetBookings)
	h.Post("/bookings/:id/cancel", c.CancelBooking)

	// Moderation & feedback
	h.Post("/reports", c.ReportUser)
	h.Post("/feature-requests", c.CreateFeatureRequest)
	h.Get("/feature-requests", c.GetFeatureRequests)

	// Wallet
	h.Get("/wallet", c.GetWallet)
	h.Get("/wallet/transactions", c.GetWalletTransactions)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetProfile(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.UpdateProfile(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) GetBookings(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var q dto.PageQuery
	if err := ctx.QueryParser(&q); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.bookings.UserBookings(ctx.UserContext(), userId, q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User bookings", res))
}

func (c *userController) CancelBooking(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id", "booking ID")
	if err != nil {
		return err
	}
	res, err := c.bookings.Cancel(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking cancelled", res))
}

func (c *userController) ReportUser(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateReportRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.ReportUser(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Report submitted", res))
}

func (c *userController) CreateFeatureRequest(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateFeatureRequestRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.CreateFeatureRequest(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Feature request submitted", res))
}

func (c *userController) GetFeatureRequests(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var q dto.PageQuery
	if err := ctx.QueryParser(&q); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.GetFeatureRequests(ctx.UserContext(), userId, q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Feature requests", res))
}

func (c *userController) GetWallet(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetWallet(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Wallet", res))
}

func (c *userController) GetWalletTransactions(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var q dto.PageQuery
	if err := ctx.QueryParser(&q); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.GetWalletTransactions(ctx.UserContext(), userId, q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Wallet transactions", res))
}
