package service

import (
	"context"
	"net/http"
	"testing"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	adminEvents "ticket-marketplace-be/pkg/admin/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_ReportModerationFlow(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	users := NewUserService(f.factory, f.recorder, f.log, "INR")
	admin := NewAdminService(f.factory, f.log, f.recorder, "INR")

	r, err := users.ReportUser(ctx, f.buyer.Id, &dto.CreateReportRequest{UserId: f.other.Id, Reason: "spam"})
	require.NoError(t, err)

	_, err = users.ReportUser(ctx, f.buyer.Id, &dto.CreateReportRequest{UserId: f.other.Id, Reason: "spam again"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = users.ReportUser(ctx, f.buyer.Id, &dto.CreateReportRequest{UserId: f.buyer.Id, Reason: "myself"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	page, err := admin.GetReports(ctx, dto.ReportListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Pages)

	updated, err := admin.UpdateReportStatus(ctx, f.admin.Id, r.Id, dto.UpdateReportStatusRequest{Status: "resolved", AdminNote: "warned"})
	require.NoError(t, err)
	assert.Equal(t, "resolved", updated.Status)

	_, err = admin.UpdateReportStatus(ctx, f.admin.Id, r.Id, dto.UpdateReportStatusRequest{Status: "pending"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	require.NoError(t, admin.DeleteReport(ctx, r.Id))
	assert.Equal(t, http.StatusNotFound, statusOf(admin.DeleteReport(ctx, r.Id)))

	assert.Equal(t, 1, f.count(adminEvents.ReportCreated))
	assert.Equal(t, 1, f.count(adminEvents.ReportStatusUpdated))
}

func TestAdmin_UserStatus(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	admin := NewAdminService(f.factory, f.log, f.recorder, "INR")

	_, err := admin.UpdateUserStatus(ctx, f.admin.Id, f.admin.Id, "blocked")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	u, err := admin.UpdateUserStatus(ctx, f.admin.Id, f.buyer.Id, "blocked")
	require.NoError(t, err)
	assert.Equal(t, string(entity.UserStatusBlocked), u.Status)
	assert.Equal(t, []string{adminEvents.UserBlocked}, f.recorder.Types())

	page, err := admin.GetUsers(ctx, dto.AdminUserListRequest{Status: "blocked"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, f.buyer.Id, page.Items[0].Id)

	assert.Equal(t, http.StatusBadRequest, statusOf(admin.DeleteUser(ctx, f.admin.Id, f.admin.Id)))
	assert.Equal(t, http.StatusNotFound, statusOf(admin.DeleteUser(ctx, f.admin.Id, uuid.New())))
}

func TestAdmin_CreditWalletAndBroadcast(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	admin := NewAdminService(f.factory, f.log, f.recorder, "INR")
	users := NewUserService(f.factory, f.recorder, f.log, "INR")

	w, err := admin.CreditWallet(ctx, f.admin.Id, f.buyer.Id, dto.WalletCreditRequest{Amount: 2500})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), w.Balance)
	assert.Equal(t, "INR", w.Currency)

	_, err = admin.CreditWallet(ctx, f.admin.Id, uuid.New(), dto.WalletCreditRequest{Amount: 1})
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	txs, err := users.GetWalletTransactions(ctx, f.buyer.Id, dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, txs.Items, 1)
	assert.Equal(t, "Credit from support", txs.Items[0].Description)

	require.NoError(t, admin.Broadcast(ctx, f.admin.Id, dto.BroadcastRequest{Title: "Hi", Message: "Hello all"}))
	assert.Equal(t, []string{adminEvents.WalletCredited, adminEvents.SystemBroadcast}, f.recorder.Types())
}

func TestAdmin_DashboardAndLogs(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	f.fund(t, f.buyer.Id, 100000)
	_, err := newBookingService(f).Book(ctx, f.buyer.Id, f.event.Id, &dto.BookRequest{Quantity: 2, PaymentMethod: "wallet"})
	require.NoError(t, err)

	admin := NewAdminService(f.factory, f.log, f.recorder, "INR")
	stats, err := admin.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalBookings)
	assert.Equal(t, int64(100000), stats.TotalRevenue)
	assert.Len(t, stats.RecentBookings, 1)

	top, err := admin.GetTopEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(2), top[0].TicketsSold)

	logs, err := admin.GetSystemLogs(ctx, dto.LogListRequest{})
	require.NoError(t, err)
	assert.Empty(t, logs.Items)

	_, err = admin.GetLogDetail(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestUser_ProfileAndFeatureRequests(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	users := NewUserService(f.factory, f.recorder, f.log, "INR")

	p, err := users.UpdateProfile(ctx, f.buyer.Id, &dto.UpdateProfileRequest{FullName: "  Renamed Buyer ", Phone: "+91 999"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Buyer", p.FullName)

	got, err := users.GetProfile(ctx, f.buyer.Id)
	require.NoError(t, err)
	assert.Equal(t, "+91 999", got.Phone)

	_, err = users.GetProfile(ctx, uuid.New())
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	for _, title := range []string{"Dark mode", "Seat maps", "Waitlist"} {
		_, err := users.CreateFeatureRequest(ctx, f.buyer.Id, &dto.CreateFeatureRequestRequest{Title: title, Description: "please"})
		require.NoError(t, err)
	}
	_, err = users.CreateFeatureRequest(ctx, f.other.Id, &dto.CreateFeatureRequestRequest{Title: "Other", Description: "x"})
	require.NoError(t, err)

	mine, err := users.GetFeatureRequests(ctx, f.buyer.Id, dto.PageQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mine.Total)
	assert.Len(t, mine.Items, 2)
	assert.Equal(t, 2, mine.Pages)
	assert.Equal(t, 4, f.count(adminEvents.FeatureRequestCreated))
}
