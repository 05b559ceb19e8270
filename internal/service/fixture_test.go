package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/memory"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeGateway stands in for every provider. It answers signature and
// session checks from its own fields.
type fakeGateway struct {
	method    entity.PaymentMethod
	createErr error
	validSig  bool
	paid      bool

	mu     sync.Mutex
	orders []payment.Order
}

func (g *fakeGateway) Method() entity.PaymentMethod { return g.method }

func (g *fakeGateway) CreateOrder(ctx context.Context, order payment.Order) (*payment.Checkout, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.mu.Lock()
	g.orders = append(g.orders, order)
	g.mu.Unlock()
	return &payment.Checkout{
		Provider: g.method,
		OrderId:  "order_" + order.BookingId.String(),
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyId:    "key_test",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderId, paymentId, signature string) bool {
	return g.validSig
}

func (g *fakeGateway) FetchSession(ctx context.Context, sessionId string) (*payment.SessionResult, error) {
	return &payment.SessionResult{SessionId: sessionId, PaymentId: "pi_test", Paid: g.paid}, nil
}

func (g *fakeGateway) VerifyNotification(n payment.Notification) bool {
	return g.validSig
}

type marketFixture struct {
	store    *memory.Store
	factory  unitofwork.RepositoryFactory
	recorder *adminEvents.Recorder
	log      logger.ILogger

	buyer     *entity.User
	other     *entity.User
	organizer *entity.User
	admin     *entity.User
	event     *entity.Event
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	f := &marketFixture{
		store:    store,
		factory:  store.Factory(),
		recorder: adminEvents.NewRecorder(),
		log:      logger.NewNopLogger(),
	}
	uow := f.factory.NewUnitOfWork(ctx)

	mk := func(email, name string, role entity.UserRole) *entity.User {
		u := &entity.User{Id: uuid.New(), Email: email, FullName: name, Role: role, Status: entity.UserStatusActive, CreatedAt: time.Now()}
		require.NoError(t, uow.UserRepository().Create(ctx, u))
		return u
	}
	f.buyer = mk("buyer@example.com", "Buyer", entity.UserRoleUser)
	f.other = mk("other@example.com", "Other", entity.UserRoleUser)
	f.organizer = mk("org@example.com", "Organizer", entity.UserRoleOrganizer)
	f.admin = mk("admin@example.com", "Admin", entity.UserRoleAdmin)

	f.event = &entity.Event{
		Id:          uuid.New(),
		OrganizerId: f.organizer.Id,
		Title:       "Jazz Night",
		Venue:       "Blue Hall",
		StartsAt:    time.Now().Add(72 * time.Hour),
		EndsAt:      time.Now().Add(75 * time.Hour),
		TicketPrice: 50000,
		Capacity:    10,
		Status:      entity.EventStatusPublished,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, uow.EventRepository().Create(ctx, f.event))
	return f
}

func (f *marketFixture) fund(t *testing.T, userId uuid.UUID, amount int64) {
	t.Helper()
	ctx := context.Background()
	uow := f.factory.NewUnitOfWork(ctx)
	w := &entity.Wallet{Id: uuid.New(), UserId: userId, Balance: amount, CreatedAt: time.Now()}
	require.NoError(t, uow.WalletRepository().Create(ctx, w))
}

func (f *marketFixture) balance(t *testing.T, userId uuid.UUID) int64 {
	t.Helper()
	ctx := context.Background()
	w, err := f.factory.NewUnitOfWork(ctx).WalletRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	if w == nil {
		return 0
	}
	return w.Balance
}

func (f *marketFixture) bookedCount(t *testing.T) int {
	t.Helper()
	ctx := context.Background()
	e, err := f.factory.NewUnitOfWork(ctx).EventRepository().FindOne(ctx, specification.ByID{ID: f.event.Id})
	require.NoError(t, err)
	return e.BookedCount
}

func (f *marketFixture) booking(t *testing.T, id uuid.UUID) *entity.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := f.factory.NewUnitOfWork(ctx).BookingRepository().FindOne(ctx, specification.ByID{ID: id})
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}

func (f *marketFixture) count(eventType string) int {
	n := 0
	for _, typ := range f.recorder.Types() {
		if typ == eventType {
			n++
		}
	}
	return n
}

func statusOf(err error) int {
	if appErr, ok := serverutils.AsAppError(err); ok {
		return appErr.Code
	}
	return 0
}

var errProviderDown = errors.New("provider down")
