package service

import (
	"context"
	"fmt"
	"time"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/mailer"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/admin/wallet"

	"github.com/google/uuid"
)

// bookingLedger holds the booking state changes shared by the booking and
// payment services. Methods taking a uow expect an open transaction.
type bookingLedger struct {
	wallets   *wallet.Manager
	publisher adminEvents.Publisher
	email     mailer.IEmailService
	logger    logger.ILogger
	currency  string
}

func formatMoney(amount int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, amount/100, amount%100)
}

func (l *bookingLedger) lockBooking(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Booking, error) {
	booking, err := uow.BookingRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, serverutils.NotFound("Booking not found")
	}
	return booking, nil
}

// markPaid confirms a pending booking. It returns false when the booking was
// already paid. A payment landing on a cancelled booking goes to the wallet.
func (l *bookingLedger) markPaid(ctx context.Context, uow unitofwork.UnitOfWork, booking *entity.Booking, reference string) (bool, error) {
	if booking.IsPaid() {
		return false, nil
	}

	now := time.Now()
	booking.PaymentStatus = entity.PaymentStatusPaid
	booking.UpdatedAt = now
	if reference != "" {
		booking.PaymentReference = reference
	}

	if booking.Status == entity.BookingStatusCancelled {
		if _, _, err := l.wallets.Credit(ctx, uow, booking.UserId, booking.Total, "booking:"+booking.Id.String(), "Refund for cancelled booking"); err != nil {
			return false, err
		}
		booking.PaymentStatus = entity.PaymentStatusRefunded
		l.logger.Warn("BOOKING", "Payment received for cancelled booking, refunded to wallet", map[string]interface{}{
			"booking_id": booking.Id.String(),
		})
	} else {
		booking.Status = entity.BookingStatusConfirmed
	}

	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return false, err
	}
	return booking.Status == entity.BookingStatusConfirmed, nil
}

// markFailed fails a pending booking and gives its seats back.
func (l *bookingLedger) markFailed(ctx context.Context, uow unitofwork.UnitOfWork, booking *entity.Booking) error {
	if booking.Status != entity.BookingStatusPending || booking.IsPaid() {
		return nil
	}

	event, err := uow.EventRepository().FindOne(ctx, specification.ByID{ID: booking.EventId}, specification.ForUpdate{})
	if err != nil {
		return err
	}
	if event != nil {
		event.Release(booking.Quantity)
		if err := uow.EventRepository().UpdateBookedCount(ctx, event.Id, event.BookedCount); err != nil {
			return err
		}
	}

	booking.Status = entity.BookingStatusCancelled
	booking.PaymentStatus = entity.PaymentStatusFailed
	booking.UpdatedAt = time.Now()
	return uow.BookingRepository().Update(ctx, booking)
}

// announceConfirmed runs after commit: event for buyer and organizer, then the email.
func (l *bookingLedger) announceConfirmed(ctx context.Context, uow unitofwork.UnitOfWork, booking *entity.Booking) {
	event, _ := uow.EventRepository().FindOne(ctx, specification.ByID{ID: booking.EventId})
	user, _ := uow.UserRepository().FindOne(ctx, specification.ByID{ID: booking.UserId})

	organizerId := uuid.Nil
	title := booking.EventTitle
	if event != nil {
		organizerId = event.OrganizerId
		title = event.Title
	}
	l.publisher.PublishBookingConfirmed(ctx, booking.Id, booking.UserId, organizerId, title, booking.Quantity, booking.Total)

	l.logger.Info("BOOKING", "Booking confirmed", map[string]interface{}{
		"booking_id": booking.Id.String(),
		"user_id":    booking.UserId.String(),
		"total":      booking.Total,
	})

	if user == nil || event == nil || l.email == nil {
		return
	}
	data := mailer.BookingEmail{
		FullName:   user.FullName,
		EventTitle: event.Title,
		Venue:      event.Venue,
		StartsAt:   event.StartsAt.Format("Mon, 02 Jan 2006 15:04 MST"),
		Quantity:   booking.Quantity,
		Total:      formatMoney(booking.Total, l.currency),
		BookingId:  booking.Id.String(),
	}
	go func(to string) {
		if err := l.email.SendBookingConfirmation(to, data); err != nil {
			l.logger.Error("BOOKING", "Failed to send confirmation email", map[string]interface{}{"booking_id": data.BookingId, "error": err.Error()})
		}
	}(user.Email)
}
