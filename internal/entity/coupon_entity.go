package entity

import (
	"time"

	"github.com/google/uuid"
)

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

type Coupon struct {
	Id          uuid.UUID
	Code        string
	Description string
	Type        CouponType
	Value       int64 // percent for percentage coupons, minor units for fixed
	MinAmount   int64
	MaxDiscount *int64
	UsageLimit  int // 0 means unlimited
	UsedCount   int
	ExpiresAt   *time.Time
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Coupon) Validate(amount int64, now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if amount < c.MinAmount {
		return ErrCouponMinAmount
	}
	return nil
}

// Discount never exceeds amount.
func (c *Coupon) Discount(amount int64) int64 {
	var d int64
	switch c.Type {
	case CouponTypePercentage:
		d = amount * c.Value / 100
	case CouponTypeFixed:
		d = c.Value
	}
	if c.MaxDiscount != nil && d > *c.MaxDiscount {
		d = *c.MaxDiscount
	}
	if d > amount {
		d = amount
	}
	if d < 0 {
		d = 0
	}
	return d
}
