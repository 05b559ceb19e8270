package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/mailer"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/admin/mapper"
	"ticket-marketplace-be/pkg/admin/wallet"
	"ticket-marketplace-be/pkg/payment"

	"github.com/google/uuid"
)

type IBookingService interface {
	Book(ctx context.Context, userId, eventId uuid.UUID, req *dto.BookRequest) (*dto.BookResponse, error)
	Cancel(ctx context.Context, userId, bookingId uuid.UUID) (*dto.CancelBookingResponse, error)
	UserBookings(ctx context.Context, userId uuid.UUID, q dto.PageQuery) (*dto.Page[dto.BookingResponse], error)
}

type bookingService struct {
	uowFactory unitofwork.RepositoryFactory
	gateways   payment.Registry
	ledger     *bookingLedger
	logger     logger.ILogger
}

func NewBookingService(uowFactory unitofwork.RepositoryFactory, gateways payment.Registry, publisher adminEvents.Publisher, email mailer.IEmailService, logger logger.ILogger, currency string) IBookingService {
	return &bookingService{
		uowFactory: uowFactory,
		gateways:   gateways,
		ledger: &bookingLedger{
			wallets:   wallet.NewManager(),
			publisher: publisher,
			email:     email,
			logger:    logger,
			currency:  currency,
		},
		logger: logger,
	}
}

// Book reserves seats under a row lock on the event. Wallet and free bookings
// are confirmed in the same transaction; provider bookings stay pending until
// their payment is verified.
func (s *bookingService) Book(ctx context.Context, userId, eventId uuid.UUID, req *dto.BookRequest) (*dto.BookResponse, error) {
	method := entity.PaymentMethod(req.PaymentMethod)
	var gateway payment.Gateway
	if method != entity.PaymentMethodWallet {
		g, err := s.gateways.Get(method)
		if err != nil {
			return nil, serverutils.BadRequest(fmt.Sprintf("Payment method %s is not available", method))
		}
		gateway = g
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().FindOne(ctx, specification.ByID{ID: eventId}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, serverutils.NotFound("Event not found")
	}
	if !event.IsBookable(time.Now()) {
		return nil, serverutils.BadRequest("Event is not open for booking")
	}
	if req.Quantity > event.Remaining() {
		return nil, serverutils.BadRequest(fmt.Sprintf("Only %d seats remaining", event.Remaining()))
	}

	var coupon *entity.Coupon
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		coupon, err = uow.CouponRepository().FindOne(ctx, specification.ByCode{Code: code}, specification.ForUpdate{})
		if err != nil {
			return nil, err
		}
		if coupon == nil {
			return nil, serverutils.NotFound("Coupon not found")
		}
		if err := coupon.Validate(event.TicketPrice*int64(req.Quantity), time.Now()); err != nil {
			return nil, serverutils.BadRequest(err.Error())
		}
	}
	subtotal, discount, total := entity.PriceBooking(event.TicketPrice, req.Quantity, coupon)

	now := time.Now()
	booking := &entity.Booking{
		Id:            uuid.New(),
		UserId:        userId,
		EventId:       event.Id,
		EventTitle:    event.Title,
		Quantity:      req.Quantity,
		UnitPrice:     event.TicketPrice,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         total,
		Status:        entity.BookingStatusPending,
		PaymentMethod: method,
		PaymentStatus: entity.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if coupon != nil {
		booking.CouponCode = &coupon.Code
	}

	settleNow := method == entity.PaymentMethodWallet || total == 0
	if settleNow && total > 0 {
		_, tx, err := s.ledger.wallets.Debit(ctx, uow, userId, total, "booking:"+booking.Id.String(), "Tickets for "+event.Title)
		if err != nil {
			return nil, err
		}
		booking.PaymentReference = "wallet:" + tx.Id.String()
	}

	if err := event.Reserve(req.Quantity); err != nil {
		if errors.Is(err, entity.ErrNotEnoughSeats) || errors.Is(err, entity.ErrInvalidQuantity) {
			return nil, serverutils.BadRequest(err.Error())
		}
		return nil, err
	}
	if err := uow.EventRepository().UpdateBookedCount(ctx, event.Id, event.BookedCount); err != nil {
		return nil, err
	}
	if coupon != nil {
		if err := uow.CouponRepository().IncrementUsage(ctx, coupon.Id); err != nil {
			return nil, err
		}
	}
	if settleNow {
		booking.Status = entity.BookingStatusConfirmed
		booking.PaymentStatus = entity.PaymentStatusPaid
	}
	if err := uow.BookingRepository().Create(ctx, booking); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("BOOKING", "Booking created", map[string]interface{}{
		"booking_id": booking.Id.String(),
		"event_id":   event.Id.String(),
		"quantity":   req.Quantity,
		"method":     string(method),
		"total":      total,
	})

	if settleNow {
		s.ledger.announceConfirmed(ctx, s.uowFactory.NewUnitOfWork(ctx), booking)
		return &dto.BookResponse{Booking: mapper.BookingToResponse(booking)}, nil
	}

	checkout, err := s.openCheckout(ctx, gateway, booking, userId)
	if err != nil {
		return nil, err
	}
	return &dto.BookResponse{Booking: mapper.BookingToResponse(booking), Checkout: checkout}, nil
}

// openCheckout creates the provider order outside the booking transaction.
// If the provider refuses, the pending booking is failed and its seats released.
func (s *bookingService) openCheckout(ctx context.Context, gateway payment.Gateway, booking *entity.Booking, userId uuid.UUID) (*dto.CheckoutData, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order := payment.Order{
		BookingId:   booking.Id,
		Amount:      booking.Total,
		Currency:    s.ledger.currency,
		Description: fmt.Sprintf("%d x %s", booking.Quantity, booking.EventTitle),
		Quantity:    booking.Quantity,
	}
	if user, _ := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId}); user != nil {
		order.CustomerName = user.FullName
		order.CustomerEmail = user.Email
	}

	checkout, err := gateway.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("BOOKING", "Provider order failed", map[string]interface{}{
			"booking_id": booking.Id.String(),
			"provider":   string(gateway.Method()),
			"error":      err.Error(),
		})
		s.failPending(ctx, booking.Id)
		return nil, serverutils.Unavailable("Payment provider is unavailable, please try again", err)
	}

	now := time.Now()
	record := &entity.Payment{
		Id:              uuid.New(),
		BookingId:       booking.Id,
		UserId:          userId,
		Provider:        gateway.Method(),
		ProviderOrderId: checkout.OrderId,
		Amount:          booking.Total,
		Currency:        checkout.Currency,
		Status:          entity.PaymentRecordCreated,
		CheckoutURL:     checkout.CheckoutURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uow.PaymentRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	booking.PaymentReference = checkout.OrderId
	booking.UpdatedAt = now
	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, err
	}

	return &dto.CheckoutData{
		Provider:    string(checkout.Provider),
		OrderId:     checkout.OrderId,
		Amount:      checkout.Amount,
		Currency:    checkout.Currency,
		KeyId:       checkout.KeyId,
		CheckoutURL: checkout.CheckoutURL,
		Token:       checkout.Token,
	}, nil
}

func (s *bookingService) failPending(ctx context.Context, bookingId uuid.UUID) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := func() error {
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()
		booking, err := s.ledger.lockBooking(ctx, uow, bookingId)
		if err != nil {
			return err
		}
		if err := s.ledger.markFailed(ctx, uow, booking); err != nil {
			return err
		}
		return uow.Commit()
	}()
	if err != nil {
		s.logger.Error("BOOKING", "Failed to release seats", map[string]interface{}{"booking_id": bookingId.String(), "error": err.Error()})
	}
}

// Cancel releases seats and refunds a paid booking to the wallet.
// Coupon usage is not given back.
func (s *bookingService) Cancel(ctx context.Context, userId, bookingId uuid.UUID) (*dto.CancelBookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	booking, err := s.ledger.lockBooking(ctx, uow, bookingId)
	if err != nil {
		return nil, err
	}
	if booking.UserId != userId {
		return nil, serverutils.Forbidden("You can only cancel your own bookings")
	}
	if !booking.CanCancel() {
		return nil, serverutils.BadRequest("Booking is already " + string(booking.Status))
	}

	event, err := uow.EventRepository().FindOne(ctx, specification.ByID{ID: booking.EventId}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if event != nil {
		event.Release(booking.Quantity)
		if err := uow.EventRepository().UpdateBookedCount(ctx, event.Id, event.BookedCount); err != nil {
			return nil, err
		}
	}

	var refunded int64
	var refundTx *entity.WalletTransaction
	var balance int64
	if booking.IsPaid() && booking.Total > 0 {
		w, tx, err := s.ledger.wallets.Credit(ctx, uow, userId, booking.Total, "booking:"+booking.Id.String(), "Refund for "+booking.EventTitle)
		if err != nil {
			return nil, err
		}
		refunded, refundTx, balance = booking.Total, tx, w.Balance
		booking.PaymentStatus = entity.PaymentStatusRefunded
	}

	booking.Status = entity.BookingStatusCancelled
	booking.UpdatedAt = time.Now()
	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("BOOKING", "Booking cancelled", map[string]interface{}{"booking_id": bookingId.String(), "refunded": refunded})
	s.ledger.publisher.PublishBookingCancelled(ctx, booking.Id, userId, booking.EventTitle, refunded)
	if refundTx != nil {
		s.ledger.publisher.PublishWalletCredited(ctx, userId, refundTx.Id, refunded, balance, refundTx.Description)
	}

	return &dto.CancelBookingResponse{Booking: mapper.BookingToResponse(booking), Refunded: refunded}, nil
}

func (s *bookingService) UserBookings(ctx context.Context, userId uuid.UUID, q dto.PageQuery) (*dto.Page[dto.BookingResponse], error) {
	q.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	owned := specification.UserOwnedBy{UserID: userId}
	total, err := uow.BookingRepository().Count(ctx, owned)
	if err != nil {
		return nil, err
	}
	bookings, err := uow.BookingRepository().FindAll(ctx, owned,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(q.Page, q.Limit),
	)
	if err != nil {
		return nil, err
	}

	page := dto.NewPage(mapper.BookingsToResponse(bookings), total, q)
	return &page, nil
}
