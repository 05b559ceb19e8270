package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	"ticket-marketplace-be/pkg/admin/category"
	"ticket-marketplace-be/pkg/admin/mapper"

	"github.com/google/uuid"
)

type IEventService interface {
	List(ctx context.Context, req dto.EventListRequest) (*dto.Page[dto.EventResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*dto.EventResponse, error)
	Categories(ctx context.Context) ([]dto.CategoryResponse, error)
	Create(ctx context.Context, organizerId uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error)
	Update(ctx context.Context, actorId uuid.UUID, role string, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error)
	UpdateStatus(ctx context.Context, actorId uuid.UUID, role string, id uuid.UUID, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, actorId uuid.UUID, role string, id uuid.UUID) error
	Mine(ctx context.Context, organizerId uuid.UUID, q dto.PageQuery) (*dto.Page[dto.EventResponse], error)
	Bookings(ctx context.Context, actorId uuid.UUID, role string, id uuid.UUID, q dto.PageQuery) (*dto.Page[dto.BookingResponse], error)
}

type eventService struct {
	uowFactory unitofwork.RepositoryFactory
	categories *category.Manager
	logger     logger.ILogger
}

func NewEventService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IEventService {
	return &eventService{
		uowFactory: uowFactory,
		categories: category.NewManager(),
		logger:     logger,
	}
}

var eventSearchFields = []string{"title", "description", "venue"}

func (s *eventService) List(ctx context.Context, req dto.EventListRequest) (*dto.Page[dto.EventResponse], error) {
	req.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	filters := []specification.Specification{
		specification.ByStatus{Status: string(entity.EventStatusPublished)},
		specification.Search{Fields: eventSearchFields, Term: req.Search},
	}
	if req.Category != "" {
		categoryId, err := uuid.Parse(req.Category)
		if err != nil {
			return nil, serverutils.BadRequest("Invalid category id")
		}
		filters = append(filters, specification.InCategory{CategoryID: &categoryId})
	}
	if req.Upcoming {
		filters = append(filters, specification.StartsAfter{Time: time.Now()})
	}

	total, err := uow.EventRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	events, err := uow.EventRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "starts_at"},
		specification.Page(req.Page, req.Limit),
	)...)
	if err != nil {
		return nil, err
	}

	page := dto.NewPage(mapper.EventsToResponse(events), total, req.PageQuery)
	return &page, nil
}

func (s *eventService) find(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Event, error) {
	event, err := uow.EventRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, serverutils.NotFound("Event not found")
	}
	return event, nil
}

// owned loads an event the actor may manage: its organizer or any admin.
func (s *eventService) owned(ctx context.Context, uow unitofwork.UnitOfWork, actorId uuid.UUID, role string, id uuid.UUID) (*entity.Event, error) {
	event, err := s.find(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerId != actorId && role != string(entity.UserRoleAdmin) {
		return nil, serverutils.Forbidden("You do not manage this event")
	}
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID) (*dto.EventResponse, error) {
	event, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), id)
	if err != nil {
		return nil, err
	}
	res := mapper.EventToResponse(event)
	return &res, nil
}

func (s *eventService) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	items, err := s.categories.Active(ctx, s.uowFactory.NewUnitOfWork(ctx))
	if err != nil {
		return nil, err
	}
	return mapper.CategoriesToResponse(items), nil
}

func (s *eventService) apply(ctx context.Context, uow unitofwork.UnitOfWork, e *entity.Event, req *dto.EventRequest) error {
	if req.CategoryId != nil {
		c, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: *req.CategoryId})
		if err != nil {
			return err
		}
		if c == nil || !c.IsActive {
			return serverutils.BadRequest("Category not found")
		}
	}
	if !req.EndsAt.After(req.StartsAt) {
		return serverutils.BadRequest("ends_at must be after starts_at")
	}
	if req.Capacity < e.BookedCount {
		return serverutils.BadRequest(fmt.Sprintf("Capacity cannot be lower than the %d seats already booked", e.BookedCount))
	}

	e.CategoryId = req.CategoryId
	e.Title = strings.TrimSpace(req.Title)
	e.Description = req.Description
	e.Venue = req.Venue
	e.Address = req.Address
	e.Latitude = req.Latitude
	e.Longitude = req.Longitude
	e.StartsAt = req.StartsAt
	e.EndsAt = req.EndsAt
	e.TicketPrice = req.TicketPrice
	e.Capacity = req.Capacity
	e.ImageURL = req.ImageURL
	e.UpdatedAt = time.Now()
	return nil
}

func (s *eventService) Create(ctx context.Context, organizerId uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	event := &entity.Event{
		Id:          uuid.New(),
		OrganizerId: organizerId,
		Status:      entity.EventStatusDraft,
		CreatedAt:   time.Now(),
	}
	if err := s.apply(ctx, uow, event, req); err != nil {
		return nil, err
	}
	if err := uow.EventRepository().Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("EVENT", "Event created", map[string]interface{}{"event_id": event.Id.String(), "organizer_id": organizerId.String()})
	return s.Get(ctx, event.Id)
}

func (s *eventService) Update(ctx context.Context, actorId uuid.UUID, role string, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	event, err := s.owned(ctx, uow, actorId, role, id)
	if err != nil {
		return nil, err
	}
	if event.Status == entity.EventStatusCancelled || event.Status == entity.EventStatusCompleted {
		return nil, serverutils.BadRequest("A " + string(event.Status) + " event cannot be edited")
	}
	if err := s.apply(ctx, uow, event, req); err != nil {
		return nil, err
	}
	if err := uow.EventRepository().Update(ctx, event); err != nil {
		return nil, err
	}
	return s.Get(ctx, event.Id)
}

func (s *eventService) UpdateStatus(ctx context.Context, actorId uuid.UUID, role string, id uuid.UUID, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	event, err := s.owned(ctx, uow, actorId, role, id)
	if err != nil {
		return nil, err
	}

	next := entity.EventStatus(req.Status)
	if next == event.Status {
		res := mapper.EventToResponse(event)
		return &res, nil
	}
	if !event.CanTransitionTo(next) {
		return nil, serverutils.BadRequest(fmt.Sprintf("Cannot change event status from %s to %s", event.Status, next))
	}

	event.Status = next
	event.UpdatedAt = time.Now()
	if err := uow.EventRepository().Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("EVENT", "Event status changed", map[string]interface{}{"event_id": id.String(), "status": req.Status})
	res := mapper.EventToResponse(event)
	return &res, nil
}

// Delete refuses while confirmed bookings exist; those events get cancelled instead.
func (s *eventService) Delete(ctx context.Context, actorId uuid.UUID, role string, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.owned(ctx, uow, actorId, role, id); err != nil {
		return err
	}

	confirmed, err := uow.BookingRepository().Count(ctx,
		specification.ForEvent{EventID: id},
		specification.ByStatus{Status: string(entity.BookingStatusConfirmed)},
	)
	if err != nil {
		return err
	}
	if confirmed > 0 {
		return serverutils.Conflict("Event has confirmed bookings; cancel it instead")
	}

	s.logger.Info("EVENT", "Event deleted", map[string]interface{}{"event_id": id.String(), "actor_id": actorId.String()})
	return uow.EventRepository().Delete(ctx, id)
}

func (s *eventService) Mine(ctx context.Context, organizerId uuid.UUID, q dto.PageQuery) (*dto.Page[dto.EventResponse], error) {
	q.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	filters := []specification.Specification{
		specification.OrganizedBy{OrganizerID: organizerId},
		specification.Search{Fields: eventSearchFields, Term: q.Search},
	}
	total, err := uow.EventRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	events, err := uow.EventRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(q.Page, q.Limit),
	)...)
	if err != nil {
		return nil, err
	}

	page := dto.NewPage(mapper.EventsToResponse(events), total, q)
	return &page, nil
}

func (s *eventService) Bookings(ctx context.Context, actorId uuid.UUID, role string, id uuid.UUID, q dto.PageQuery) (*dto.Page[dto.BookingResponse], error) {
	q.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.owned(ctx, uow, actorId, role, id); err != nil {
		return nil, err
	}

	byEvent := specification.ForEvent{EventID: id}
	total, err := uow.BookingRepository().Count(ctx, byEvent)
	if err != nil {
		return nil, err
	}
	bookings, err := uow.BookingRepository().FindAll(ctx, byEvent,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(q.Page, q.Limit),
	)
	if err != nil {
		return nil, err
	}

	page := dto.NewPage(mapper.BookingsToResponse(bookings), total, q)
	return &page, nil
}
