package contract

import (
	"context"
	"time"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MonthlyRevenue struct {
	Month    string `json:"month"`
	Revenue  int64  `json:"revenue"`
	Bookings int64  `json:"bookings"`
}

type EventSales struct {
	EventId     uuid.UUID `json:"event_id"`
	Title       string    `json:"title"`
	TicketsSold int64     `json:"tickets_sold"`
	Revenue     int64     `json:"revenue"`
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	Update(ctx context.Context, booking *entity.Booking) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	SumRevenue(ctx context.Context) (int64, error)
	RevenueByMonth(ctx context.Context, since time.Time) ([]MonthlyRevenue, error)
	TopEvents(ctx context.Context, limit int) ([]EventSales, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	Update(ctx context.Context, payment *entity.Payment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
}
