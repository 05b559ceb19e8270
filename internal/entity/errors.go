package entity

import "errors"

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNotEnoughSeats    = errors.New("not enough seats remaining")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidAmount     = errors.New("amount must be positive")

	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrCouponMinAmount = errors.New("order amount is below the coupon minimum")
)
