package mapper

import (
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/model"
)

type BookingMapper struct{}

func NewBookingMapper() *BookingMapper {
	return &BookingMapper{}
}

func (m *BookingMapper) ToEntity(b *model.Booking) *entity.Booking {
	if b == nil {
		return nil
	}
	booking := &entity.Booking{
		Id:               b.Id,
		UserId:           b.UserId,
		EventId:          b.EventId,
		Quantity:         b.Quantity,
		UnitPrice:        b.UnitPrice,
		Subtotal:         b.Subtotal,
		Discount:         b.Discount,
		Total:            b.Total,
		CouponCode:       b.CouponCode,
		Status:           entity.BookingStatus(b.Status),
		PaymentMethod:    entity.PaymentMethod(b.PaymentMethod),
		PaymentStatus:    entity.PaymentStatus(b.PaymentStatus),
		PaymentReference: b.PaymentReference,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.Event != nil {
		booking.EventTitle = b.Event.Title
	}
	return booking
}

func (m *BookingMapper) ToModel(b *entity.Booking) *model.Booking {
	return &model.Booking{
		Id:               b.Id,
		UserId:           b.UserId,
		EventId:          b.EventId,
		Quantity:         b.Quantity,
		UnitPrice:        b.UnitPrice,
		Subtotal:         b.Subtotal,
		Discount:         b.Discount,
		Total:            b.Total,
		CouponCode:       b.CouponCode,
		Status:           string(b.Status),
		PaymentMethod:    string(b.PaymentMethod),
		PaymentStatus:    string(b.PaymentStatus),
		PaymentReference: b.PaymentReference,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (m *BookingMapper) ToEntities(bookings []*model.Booking) []*entity.Booking {
	out := make([]*entity.Booking, len(bookings))
	for i, b := range bookings {
		out[i] = m.ToEntity(b)
	}
	return out
}

func (m *BookingMapper) PaymentToEntity(p *model.Payment) *entity.Payment {
	if p == nil {
		return nil
	}
	return &entity.Payment{
		Id:                p.Id,
		BookingId:         p.BookingId,
		UserId:            p.UserId,
		Provider:          entity.PaymentMethod(p.Provider),
		ProviderOrderId:   p.ProviderOrderId,
		ProviderPaymentId: p.ProviderPaymentId,
		Amount:            p.Amount,
		Currency:          p.Currency,
		Status:            entity.PaymentRecordStatus(p.Status),
		CheckoutURL:       p.CheckoutURL,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (m *BookingMapper) PaymentToModel(p *entity.Payment) *model.Payment {
	return &model.Payment{
		Id:                p.Id,
		BookingId:         p.BookingId,
		UserId:            p.UserId,
		Provider:          string(p.Provider),
		ProviderOrderId:   p.ProviderOrderId,
		ProviderPaymentId: p.ProviderPaymentId,
		Amount:            p.Amount,
		Currency:          p.Currency,
		Status:            string(p.Status),
		CheckoutURL:       p.CheckoutURL,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
