package memory

import (
	"context"
	"testing"
	"time"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository"
	"ticket-marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store, email, name string, role entity.UserRole) *entity.User {
	t.Helper()
	u := &entity.User{Id: uuid.New(), Email: email, FullName: name, Role: role, Status: entity.UserStatusActive, CreatedAt: time.Now()}
	require.NoError(t, s.Factory().NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedUser(t, s, "a@example.com", "Alice", entity.UserRoleUser)

	err := s.Factory().NewUnitOfWork(ctx).UserRepository().Create(ctx, &entity.User{Id: uuid.New(), Email: "a@example.com"})
	assert.True(t, serverutils.IsUniqueViolation(err))

	found, err := s.Factory().NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByEmail{Email: "A@example.com"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Alice", found.FullName)

	missing, err := s.Factory().NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByEmail{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindOne_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u := seedUser(t, s, "a@example.com", "Alice", entity.UserRoleUser)
	repo := s.Factory().NewUnitOfWork(ctx).UserRepository()

	found, err := repo.FindOne(ctx, specification.ByID{ID: u.Id})
	require.NoError(t, err)
	found.FullName = "Changed"

	again, err := repo.FindOne(ctx, specification.ByID{ID: u.Id})
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.FullName)
}

func TestReportRepository_PairAndSearch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice@example.com", "Alice", entity.UserRoleUser)
	bob := seedUser(t, s, "bob@example.com", "Bob Stone", entity.UserRoleUser)
	carol := seedUser(t, s, "carol@example.com", "Carol", entity.UserRoleUser)
	repo := s.Factory().NewUnitOfWork(ctx).ReportRepository()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &entity.Report{Id: uuid.New(), UserId: bob.Id, ReportedBy: alice.Id, Reason: "spam", Status: entity.ReportStatusPending, CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &entity.Report{Id: uuid.New(), UserId: alice.Id, ReportedBy: carol.Id, Reason: "abuse", Status: entity.ReportStatusReviewed, CreatedAt: now.Add(time.Second)}))

	err := repo.Create(ctx, &entity.Report{Id: uuid.New(), UserId: bob.Id, ReportedBy: alice.Id, Reason: "again"})
	assert.True(t, serverutils.IsUniqueViolation(err))

	pair, err := repo.FindOne(ctx, specification.ReportPair{UserID: bob.Id, ReportedBy: alice.Id})
	require.NoError(t, err)
	require.NotNil(t, pair)
	require.NotNil(t, pair.ReportedUser)
	assert.Equal(t, "Bob Stone", pair.ReportedUser.FullName)
	assert.Equal(t, "Alice", pair.Reporter.FullName)

	byName, err := repo.FindAll(ctx, specification.ReportSearch{Term: "stone"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, bob.Id, byName[0].UserId)

	newest, err := repo.FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true}, specification.Page(1, 1))
	require.NoError(t, err)
	require.Len(t, newest, 1)
	assert.Equal(t, "abuse", newest[0].Reason)

	n, err := repo.Count(ctx, specification.ByStatus{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBookingRepository_Aggregates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	uow := s.Factory().NewUnitOfWork(ctx)
	user := seedUser(t, s, "u@example.com", "U", entity.UserRoleUser)

	ev := &entity.Event{Id: uuid.New(), Title: "Jazz Night", Status: entity.EventStatusPublished, Capacity: 100}
	require.NoError(t, uow.EventRepository().Create(ctx, ev))

	add := func(total int64, qty int, status entity.BookingStatus, pay entity.PaymentStatus) {
		require.NoError(t, uow.BookingRepository().Create(ctx, &entity.Booking{
			Id: uuid.New(), UserId: user.Id, EventId: ev.Id, Quantity: qty, Total: total,
			Status: status, PaymentStatus: pay, CreatedAt: time.Now(),
		}))
	}
	add(1000, 1, entity.BookingStatusConfirmed, entity.PaymentStatusPaid)
	add(3000, 3, entity.BookingStatusConfirmed, entity.PaymentStatusPaid)
	add(5000, 5, entity.BookingStatusPending, entity.PaymentStatusPending)

	sum, err := uow.BookingRepository().SumRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), sum)

	top, err := uow.BookingRepository().TopEvents(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Jazz Night", top[0].Title)
	assert.Equal(t, int64(4), top[0].TicketsSold)

	months, err := uow.BookingRepository().RevenueByMonth(ctx, time.Now().AddDate(0, -1, 0))
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, int64(2), months[0].Bookings)

	b, err := uow.BookingRepository().FindOne(ctx, specification.ForEvent{EventID: ev.Id})
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", b.EventTitle)
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	admin := seedUser(t, s, "admin@example.com", "Admin", entity.UserRoleAdmin)
	user := seedUser(t, s, "user@example.com", "User", entity.UserRoleUser)
	repo := s.Notifications()

	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateNotification(ctx, &model.Notification{UserID: user.Id, TypeCode: "X", Title: "t", CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	list, total, err := repo.GetNotificationsByUserID(ctx, user.Id, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	assert.ErrorIs(t, repo.MarkAsRead(ctx, list[0].ID, admin.Id), repository.ErrNotificationNotFound)
	require.NoError(t, repo.MarkAsRead(ctx, list[0].ID, user.Id))

	unread, err := repo.GetUnreadCount(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	n, err := repo.MarkAllAsRead(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	admins, err := repo.GetUsersByRole(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.Id, admins[0].Id)

	pref, err := repo.GetPreference(ctx, user.Id)
	require.NoError(t, err)
	assert.True(t, pref.EmailEnabled)

	_, err = repo.GetNotificationTypeByCode(ctx, "MISSING")
	assert.Error(t, err)
}
