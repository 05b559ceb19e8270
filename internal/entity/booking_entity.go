package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string
type PaymentMethod string
type PaymentStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"

	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodStripe   PaymentMethod = "stripe"
	PaymentMethodMidtrans PaymentMethod = "midtrans"
	PaymentMethodWallet   PaymentMethod = "wallet"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Booking struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	EventId          uuid.UUID
	EventTitle       string
	Quantity         int
	UnitPrice        int64
	Subtotal         int64
	Discount         int64
	Total            int64
	CouponCode       *string
	Status           BookingStatus
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	PaymentReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (b *Booking) CanCancel() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// PriceBooking computes subtotal, discount and total. coupon may be nil.
func PriceBooking(unitPrice int64, quantity int, coupon *Coupon) (subtotal, discount, total int64) {
	subtotal = unitPrice * int64(quantity)
	if coupon != nil {
		discount = coupon.Discount(subtotal)
	}
	return subtotal, discount, subtotal - discount
}
