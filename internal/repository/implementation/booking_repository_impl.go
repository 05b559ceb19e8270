package implementation

import (
	"context"
	"time"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/mapper"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/repository/contract"
	"ticket-marketplace-be/internal/repository/specification"

	"gorm.io/gorm"
)

type BookingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookingMapper
}

func NewBookingRepository(db *gorm.DB) contract.BookingRepository {
	return &BookingRepositoryImpl{db: db, mapper: mapper.NewBookingMapper()}
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *entity.Booking) error {
	m := r.mapper.ToModel(booking)
	if err := r.db.WithContext(ctx).Omit("User", "Event").Create(m).Error; err != nil {
		return err
	}
	title := booking.EventTitle
	*booking = *r.mapper.ToEntity(m)
	booking.EventTitle = title
	return nil
}

func (r *BookingRepositoryImpl) Update(ctx context.Context, booking *entity.Booking) error {
	m := r.mapper.ToModel(booking)
	if err := r.db.WithContext(ctx).Omit("User", "Event").Save(m).Error; err != nil {
		return err
	}
	title := booking.EventTitle
	*booking = *r.mapper.ToEntity(m)
	booking.EventTitle = title
	return nil
}

func (r *BookingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	var m model.Booking
	found, err := first(r.db.WithContext(ctx), &m, specs...)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	var models []*model.Booking
	if err := applySpecifications(r.db.WithContext(ctx).Preload("Event"), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count(r.db.WithContext(ctx), &model.Booking{}, specs...)
}

func (r *BookingRepositoryImpl) SumRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("payment_status = ?", string(entity.PaymentStatusPaid)).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *BookingRepositoryImpl) RevenueByMonth(ctx context.Context, since time.Time) ([]contract.MonthlyRevenue, error) {
	var rows []contract.MonthlyRevenue
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Select("TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS month, COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS bookings").
		Where("payment_status = ? AND created_at >= ?", string(entity.PaymentStatusPaid), since).
		Group("DATE_TRUNC('month', created_at)").
		Order("DATE_TRUNC('month', created_at) ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *BookingRepositoryImpl) TopEvents(ctx context.Context, limit int) ([]contract.EventSales, error) {
	var rows []contract.EventSales
	err := r.db.WithContext(ctx).Table("bookings").
		Select("events.id AS event_id, events.title AS title, COALESCE(SUM(bookings.quantity), 0) AS tickets_sold, COALESCE(SUM(bookings.total), 0) AS revenue").
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("bookings.status = ?", string(entity.BookingStatusConfirmed)).
		Group("events.id, events.title").
		Order("tickets_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
