package dto

import (
	"time"

	"github.com/google/uuid"
)

type BookRequest struct {
	Quantity      int    `json:"quantity" validate:"gt=0,lte=20"`
	CouponCode    string `json:"coupon_code" validate:"omitempty,max=32"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=razorpay stripe midtrans wallet"`
}

type BookingResponse struct {
	Id               uuid.UUID `json:"id"`
	UserId           uuid.UUID `json:"user_id"`
	EventId          uuid.UUID `json:"event_id"`
	EventTitle       string    `json:"event_title,omitempty"`
	Quantity         int       `json:"quantity"`
	UnitPrice        int64     `json:"unit_price"`
	Subtotal         int64     `json:"subtotal"`
	Discount         int64     `json:"discount"`
	Total            int64     `json:"total"`
	CouponCode       string    `json:"coupon_code,omitempty"`
	Status           string    `json:"status"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentStatus    string    `json:"payment_status"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CheckoutData carries what the frontend needs to open the provider widget.
// Empty for wallet bookings, which are confirmed immediately.
type CheckoutData struct {
	Provider    string `json:"provider"`
	OrderId     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	KeyId       string `json:"key_id,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	Token       string `json:"token,omitempty"`
}

type BookResponse struct {
	Booking  BookingResponse `json:"booking"`
	Checkout *CheckoutData   `json:"checkout,omitempty"`
}
