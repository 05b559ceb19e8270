package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCoupon_Discount(t *testing.T) {
	tests := []struct {
		name   string
		coupon Coupon
		amount int64
		want   int64
	}{
		{"percentage", Coupon{Type: CouponTypePercentage, Value: 10}, 50000, 5000},
		{"percentage capped", Coupon{Type: CouponTypePercentage, Value: 50, MaxDiscount: ptr(int64(10000))}, 50000, 10000},
		{"fixed", Coupon{Type: CouponTypeFixed, Value: 2500}, 50000, 2500},
		{"fixed larger than amount", Coupon{Type: CouponTypeFixed, Value: 99999}, 1000, 1000},
		{"unknown type", Coupon{Type: "bogus", Value: 10}, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.Discount(tt.amount))
		})
	}
}

func TestCoupon_Validate(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		coupon Coupon
		amount int64
		want   error
	}{
		{"valid", Coupon{IsActive: true, ExpiresAt: &future, UsageLimit: 5, UsedCount: 4}, 100, nil},
		{"inactive", Coupon{IsActive: false}, 100, ErrCouponInactive},
		{"expired", Coupon{IsActive: true, ExpiresAt: &past}, 100, ErrCouponExpired},
		{"exhausted", Coupon{IsActive: true, UsageLimit: 2, UsedCount: 2}, 100, ErrCouponExhausted},
		{"unlimited", Coupon{IsActive: true, UsageLimit: 0, UsedCount: 1000}, 100, nil},
		{"below minimum", Coupon{IsActive: true, MinAmount: 500}, 100, ErrCouponMinAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.Validate(tt.amount, now))
		})
	}
}

func TestEvent_ReserveAndRelease(t *testing.T) {
	e := Event{Status: EventStatusPublished, Capacity: 10, BookedCount: 8, StartsAt: time.Now().Add(time.Hour)}

	assert.True(t, e.IsBookable(time.Now()))
	assert.ErrorIs(t, e.Reserve(3), ErrNotEnoughSeats)
	assert.ErrorIs(t, e.Reserve(0), ErrInvalidQuantity)
	require.NoError(t, e.Reserve(2))
	assert.Equal(t, 0, e.Remaining())
	assert.False(t, e.IsBookable(time.Now()))

	e.Release(5)
	assert.Equal(t, 5, e.BookedCount)
	e.Release(50)
	assert.Equal(t, 0, e.BookedCount)
}

func TestEvent_IsBookable(t *testing.T) {
	now := time.Now()
	draft := Event{Status: EventStatusDraft, Capacity: 1, StartsAt: now.Add(time.Hour)}
	started := Event{Status: EventStatusPublished, Capacity: 1, StartsAt: now.Add(-time.Hour)}
	assert.False(t, draft.IsBookable(now))
	assert.False(t, started.IsBookable(now))
}

func TestEvent_CanTransitionTo(t *testing.T) {
	e := Event{Status: EventStatusDraft}
	assert.True(t, e.CanTransitionTo(EventStatusPublished))
	assert.False(t, e.CanTransitionTo(EventStatusCompleted))

	e.Status = EventStatusCancelled
	assert.False(t, e.CanTransitionTo(EventStatusPublished))
}

func TestReport_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from ReportStatus
		to   ReportStatus
		want bool
	}{
		{ReportStatusPending, ReportStatusReviewed, true},
		{ReportStatusPending, ReportStatusDismissed, true},
		{ReportStatusReviewed, ReportStatusResolved, true},
		{ReportStatusReviewed, ReportStatusPending, false},
		{ReportStatusResolved, ReportStatusDismissed, false},
		{ReportStatusDismissed, ReportStatusReviewed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			r := Report{Status: tt.from}
			assert.Equal(t, tt.want, r.CanTransitionTo(tt.to))
		})
	}
}

func TestWallet_CreditDebit(t *testing.T) {
	w := Wallet{Balance: 1000}

	tx, err := w.Credit(500, "booking:1", "refund")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), w.Balance)
	assert.Equal(t, int64(1500), tx.BalanceAfter)
	assert.Equal(t, WalletCredit, tx.Type)

	_, err = w.Debit(2000, "booking:2", "purchase")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(1500), w.Balance)

	tx, err = w.Debit(1500, "booking:2", "purchase")
	require.NoError(t, err)
	assert.Equal(t, int64(0), tx.BalanceAfter)

	_, err = w.Credit(0, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPriceBooking(t *testing.T) {
	sub, disc, total := PriceBooking(25000, 3, nil)
	assert.Equal(t, int64(75000), sub)
	assert.Zero(t, disc)
	assert.Equal(t, int64(75000), total)

	sub, disc, total = PriceBooking(25000, 2, &Coupon{Type: CouponTypePercentage, Value: 20})
	assert.Equal(t, int64(50000), sub)
	assert.Equal(t, int64(10000), disc)
	assert.Equal(t, int64(40000), total)
}

func TestBooking_CanCancel(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingStatusPending}).CanCancel())
	assert.True(t, (&Booking{Status: BookingStatusConfirmed}).CanCancel())
	assert.False(t, (&Booking{Status: BookingStatusCancelled}).CanCancel())
}
