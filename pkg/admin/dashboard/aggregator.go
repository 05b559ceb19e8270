package dashboard

import (
	"context"
	"time"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/repository/contract"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
)

const (
	recentBookingsLimit = 5
	maxMonths           = 24
	maxTopEvents        = 50
)

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger logger.ILogger
}

func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

type Stats struct {
	TotalUsers     int64
	TotalEvents    int64
	TotalBookings  int64
	TotalRevenue   int64
	OpenReports    int64
	RecentBookings []*entity.Booking
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*Stats, error) {
	var (
		s   Stats
		err error
	)

	if s.TotalUsers, err = uow.UserRepository().Count(ctx); err != nil {
		return nil, err
	}
	if s.TotalEvents, err = uow.EventRepository().Count(ctx); err != nil {
		return nil, err
	}
	if s.TotalBookings, err = uow.BookingRepository().Count(ctx); err != nil {
		return nil, err
	}
	if s.TotalRevenue, err = uow.BookingRepository().SumRevenue(ctx); err != nil {
		return nil, err
	}
	if s.OpenReports, err = uow.ReportRepository().Count(ctx, specification.ByStatus{Status: string(entity.ReportStatusPending)}); err != nil {
		return nil, err
	}

	s.RecentBookings, err = uow.BookingRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: recentBookingsLimit},
	)
	if err != nil {
		// The tiles are still useful without the recent list.
		a.logger.Warn("DASHBOARD", "Failed to load recent bookings", map[string]interface{}{"error": err.Error()})
		s.RecentBookings = nil
	}
	return &s, nil
}

// Revenue returns paid revenue per month for the last months (1..24).
func (a *Aggregator) Revenue(ctx context.Context, uow unitofwork.UnitOfWork, months int) ([]contract.MonthlyRevenue, error) {
	months = clamp(months, 1, maxMonths, 6)
	now := time.Now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	return uow.BookingRepository().RevenueByMonth(ctx, since)
}

func (a *Aggregator) TopEvents(ctx context.Context, uow unitofwork.UnitOfWork, limit int) ([]contract.EventSales, error) {
	return uow.BookingRepository().TopEvents(ctx, clamp(limit, 1, maxTopEvents, 5))
}

func clamp(v, lo, hi, fallback int) int {
	if v <= 0 {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
