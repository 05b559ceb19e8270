package controller

import (
	"strings"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEventController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Categories(ctx *fiber.Ctx) error
	Geocode(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Mine(ctx *fiber.Ctx) error
	Bookings(ctx *fiber.Ctx) error
	Book(ctx *fiber.Ctx) error
}

type eventController struct {
	service  service.IEventService
	location service.ILocationService
	bookings service.IBookingService
	auth     fiber.Handler
}

func NewEventController(service service.IEventService, location service.ILocationService, bookings service.IBookingService, auth fiber.Handler) IEventController {
	return &eventController{service: service, location: location, bookings: bookings, auth: auth}
}

func (c *eventController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/event")
	organizer := serverutils.RequireRole(string(entity.UserRoleOrganizer), string(entity.UserRoleAdmin))

	// Public, static paths before :id
	h.Get("/", c.List)
	h.Get("/categories", c.Categories)
	h.Get("/location/geocode", c.Geocode)
	h.Get("/organizer/mine", c.auth, organizer, c.Mine)
	h.Get("/:id", c.Get)

	// Organizer
	h.Post("/", c.auth, organizer, c.Create)
	h.Put("/:id", c.auth, organizer, c.Update)
	h.Patch("/:id/status", c.auth, organizer, c.UpdateStatus)
	h.Delete("/:id", c.auth, organizer, c.Delete)
	h.Get("/:id/bookings", c.auth, organizer, c.Bookings)

	// Any signed-in user
	h.Post("/:id/book", c.auth, c.Book)
}

func (c *eventController) List(ctx *fiber.Ctx) error {
	var req dto.EventListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.List(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Events", res))
}

func (c *eventController) Get(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id", "event ID")
	if err != nil {
		return err
	}
	res, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Event", res))
}

func (c *eventController) Categories(ctx *fiber.Ctx) error {
	res, err := c.service.Categories(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Categories", res))
}

func (c *eventController) Geocode(ctx *fiber.Ctx) error {
	q := strings.TrimSpace(ctx.Query("q"))
	if q == "" {
		return serverutils.BadRequest("Query parameter q is required")
	}
	res, err := c.location.Geocode(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Geocode results", res))
}

func (c *eventController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.EventRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Event created", res))
}

func (c *eventController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id", "event ID")
	if err != nil {
		return err
	}
	var req dto.EventRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Update(ctx.UserContext(), userId, serverutils.CurrentRole(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Event updated", res))
}

func (c *eventController) UpdateStatus(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id", "event ID")
	if err != nil {
		return err
	}
	var req dto.UpdateEventStatusRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.UpdateStatus(ctx.UserContext(), userId, serverutils.CurrentRole(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Event status updated", res))
}

func (c *eventController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id", "event ID")
	if err != nil {
		return err
	}
	if err := c.service.Delete(ctx.UserContext(), userId, serverutils.CurrentRole(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Event deleted", nil))
}

func (c *eventController) Mine(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var q dto.PageQuery
	if err := ctx.QueryParser(&q); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.Mine(ctx.UserContext(), userId, q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("My events", res))
}

func (c *eventController) Bookings(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id", "event ID")
	if err != nil {
		return err
	}
	var q dto.PageQuery
	if err := ctx.QueryParser(&q); err != nil {
		return serverutils.BadRequest("Invalid query parameters")
	}
	res, err := c.service.Bookings(ctx.UserContext(), userId, serverutils.CurrentRole(ctx), id, q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Event bookings", res))
}

func (c *eventController) Book(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id", "event ID")
	if err != nil {
		return err
	}
	var req dto.BookRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.bookings.Book(ctx.UserContext(), userId, id, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Booking created", res))
}
