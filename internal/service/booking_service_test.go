package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(f *marketFixture, gateways ...payment.Gateway) IBookingService {
	return NewBookingService(f.factory, payment.NewRegistry(gateways...), f.recorder, nil, f.log, "INR")
}

func TestBook_WalletConfirmsImmediately(t *testing.T) {
	f := newMarketFixture(t)
	f.fund(t, f.buyer.Id, 200000)
	svc := newBookingService(f)

	res, err := svc.Book(context.Background(), f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 3, PaymentMethod: "wallet"})
	require.NoError(t, err)

	assert.Nil(t, res.Checkout)
	assert.Equal(t, string(entity.BookingStatusConfirmed), res.Booking.Status)
	assert.Equal(t, string(entity.PaymentStatusPaid), res.Booking.PaymentStatus)
	assert.Equal(t, int64(150000), res.Booking.Total)
	assert.Equal(t, int64(50000), f.balance(t, f.buyer.Id))
	assert.Equal(t, 3, f.bookedCount(t))
	assert.Equal(t, 1, f.count(adminEvents.BookingConfirmed))
}

func TestBook_WalletInsufficientFunds(t *testing.T) {
	f := newMarketFixture(t)
	f.fund(t, f.buyer.Id, 1000)
	svc := newBookingService(f)

	_, err := svc.Book(context.Background(), f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 1, PaymentMethod: "wallet"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	assert.Equal(t, 0, f.bookedCount(t))
	assert.Equal(t, int64(1000), f.balance(t, f.buyer.Id))
	assert.Empty(t, f.recorder.Events())
}

func TestBook_Rejections(t *testing.T) {
	f := newMarketFixture(t)
	f.fund(t, f.buyer.Id, 10_000_000)
	razorpay := &fakeGateway{method: entity.PaymentMethodRazorpay}
	svc := newBookingService(f, razorpay)

	tests := []struct {
		name    string
		eventId uuid.UUID
		req     dto.BookRequest
		want    int
	}{
		{"unknown event", uuid.New(), dto.BookRequest{Quantity: 1, PaymentMethod: "wallet"}, http.StatusNotFound},
		{"too many seats", f.event.Id, dto.BookRequest{Quantity: 11, PaymentMethod: "wallet"}, http.StatusBadRequest},
		{"provider not configured", f.event.Id, dto.BookRequest{Quantity: 1, PaymentMethod: "stripe"}, http.StatusBadRequest},
		{"unknown coupon", f.event.Id, dto.BookRequest{Quantity: 1, PaymentMethod: "wallet", CouponCode: "NOPE"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Book(context.Background(), f.buyer.Id, tt.eventId, &req)
			require.Error(t, err)
			assert.Equal(t, tt.want, statusOf(err))
		})
	}
	assert.Equal(t, 0, f.bookedCount(t))
}

func TestBook_DraftEventIsNotBookable(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	f.event.Status = entity.EventStatusDraft
	require.NoError(t, f.factory.NewUnitOfWork(ctx).EventRepository().Update(ctx, f.event))

	_, err := newBookingService(f).Book(ctx, f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 1, PaymentMethod: "wallet"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestBook_CouponDiscount(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	f.fund(t, f.buyer.Id, 200000)
	coupon := &entity.Coupon{Id: uuid.New(), Code: "SAVE20", Type: entity.CouponTypePercentage, Value: 20, IsActive: true, CreatedAt: time.Now()}
	require.NoError(t, f.factory.NewUnitOfWork(ctx).CouponRepository().Create(ctx, coupon))

	res, err := newBookingService(f).Book(ctx, f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 2, PaymentMethod: "wallet", CouponCode: "save20"})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), res.Booking.Subtotal)
	assert.Equal(t, int64(20000), res.Booking.Discount)
	assert.Equal(t, int64(80000), res.Booking.Total)
	assert.Equal(t, "SAVE20", res.Booking.CouponCode)

	stored, err := f.factory.NewUnitOfWork(ctx).CouponRepository().FindOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestBook_ProviderReturnsCheckout(t *testing.T) {
	f := newMarketFixture(t)
	razorpay := &fakeGateway{method: entity.PaymentMethodRazorpay}
	svc := newBookingService(f, razorpay)

	res, err := svc.Book(context.Background(), f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 2, PaymentMethod: "razorpay"})
	require.NoError(t, err)

	require.NotNil(t, res.Checkout)
	assert.Equal(t, "razorpay", res.Checkout.Provider)
	assert.Equal(t, int64(100000), res.Checkout.Amount)
	assert.Equal(t, "INR", res.Checkout.Currency)
	assert.Equal(t, string(entity.BookingStatusPending), res.Booking.Status)
	assert.Equal(t, 2, f.bookedCount(t))

	require.Len(t, razorpay.orders, 1)
	assert.Equal(t, "buyer@example.com", razorpay.orders[0].CustomerEmail)
	assert.Equal(t, res.Checkout.OrderId, f.booking(t, res.Booking.Id).PaymentReference)
	assert.Empty(t, f.recorder.Events())
}

func TestBook_ProviderFailureReleasesSeats(t *testing.T) {
	f := newMarketFixture(t)
	stripe := &fakeGateway{method: entity.PaymentMethodStripe, createErr: errProviderDown}
	svc := newBookingService(f, stripe)

	_, err := svc.Book(context.Background(), f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 4, PaymentMethod: "stripe"})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(err))
	assert.Equal(t, 0, f.bookedCount(t))

	page, err := svc.UserBookings(context.Background(), f.buyer.Id, dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, string(entity.BookingStatusCancelled), page.Items[0].Status)
	assert.Equal(t, string(entity.PaymentStatusFailed), page.Items[0].PaymentStatus)
}

func TestCancel(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	f.fund(t, f.buyer.Id, 100000)
	svc := newBookingService(f)

	res, err := svc.Book(ctx, f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 2, PaymentMethod: "wallet"})
	require.NoError(t, err)
	require.Equal(t, int64(0), f.balance(t, f.buyer.Id))

	_, err = svc.Cancel(ctx, f.other.Id, res.Booking.Id)
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	cancelled, err := svc.Cancel(ctx, f.buyer.Id, res.Booking.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), cancelled.Refunded)
	assert.Equal(t, string(entity.BookingStatusCancelled), cancelled.Booking.Status)
	assert.Equal(t, string(entity.PaymentStatusRefunded), cancelled.Booking.PaymentStatus)
	assert.Equal(t, int64(100000), f.balance(t, f.buyer.Id))
	assert.Equal(t, 0, f.bookedCount(t))
	assert.Equal(t, 1, f.count(adminEvents.BookingCancelled))
	assert.Equal(t, 1, f.count(adminEvents.WalletCredited))

	_, err = svc.Cancel(ctx, f.buyer.Id, res.Booking.Id)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.Cancel(ctx, f.buyer.Id, uuid.New())
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestCancel_UnpaidBookingHasNoRefund(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	svc := newBookingService(f, &fakeGateway{method: entity.PaymentMethodRazorpay})

	res, err := svc.Book(ctx, f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 1, PaymentMethod: "razorpay"})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, f.buyer.Id, res.Booking.Id)
	require.NoError(t, err)
	assert.Zero(t, cancelled.Refunded)
	assert.Equal(t, 0, f.bookedCount(t))
	assert.Zero(t, f.count(adminEvents.WalletCredited))
}

func TestUserBookings_Paginates(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	f.fund(t, f.buyer.Id, 10_000_000)
	svc := newBookingService(f)

	for i := 0; i < 3; i++ {
		_, err := svc.Book(ctx, f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 1, PaymentMethod: "wallet"})
		require.NoError(t, err)
	}

	page, err := svc.UserBookings(ctx, f.buyer.Id, dto.PageQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Pages)

	none, err := svc.UserBookings(ctx, f.other.Id, dto.PageQuery{})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
}
