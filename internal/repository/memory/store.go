package memory

import (
	"context"
	"sync"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store is an in-process stand-in for Postgres. It backs every repository
// contract so services can run without a database (tests, local demos).
// Transactions are not isolated: Begin/Commit/Rollback only track state.
type Store struct {
	mu sync.Mutex

	users      *table[entity.User]
	tokens     *table[entity.UserRefreshToken]
	providers  *table[entity.UserProvider]
	categories *table[entity.Category]
	events     *table[entity.Event]
	coupons    *table[entity.Coupon]
	bookings   *table[entity.Booking]
	payments   *table[entity.Payment]
	reports    *table[entity.Report]
	features   *table[entity.FeatureRequest]
	wallets    *table[entity.Wallet]
	walletTxs  *table[entity.WalletTransaction]

	notifications     []model.Notification
	notificationTypes map[string]model.NotificationType
	preferences       map[uuid.UUID]model.UserNotificationPreference
}

func NewStore() *Store {
	s := &Store{
		notificationTypes: make(map[string]model.NotificationType),
		preferences:       make(map[uuid.UUID]model.UserNotificationPreference),
	}

	s.users = newTable(func(u *entity.User) uuid.UUID { return u.Id }, func(u *entity.User) fields {
		return fields{"id": u.Id, "email": u.Email, "full_name": u.FullName, "role": string(u.Role),
			"status": string(u.Status), "created_at": u.CreatedAt}
	}, []string{"email"})

	s.tokens = newTable(func(t *entity.UserRefreshToken) uuid.UUID { return t.Id }, func(t *entity.UserRefreshToken) fields {
		return fields{"id": t.Id, "user_id": t.UserId, "token_hash": t.TokenHash, "created_at": t.CreatedAt}
	}, []string{"token_hash"})

	s.providers = newTable(func(p *entity.UserProvider) uuid.UUID { return p.Id }, func(p *entity.UserProvider) fields {
		return fields{"id": p.Id, "user_id": p.UserId, "provider_name": p.ProviderName, "provider_user_id": p.ProviderUserId}
	}, []string{"provider_name", "provider_user_id"})

	s.categories = newTable(func(c *entity.Category) uuid.UUID { return c.Id }, func(c *entity.Category) fields {
		return fields{"id": c.Id, "name": c.Name, "description": c.Description, "is_active": c.IsActive, "created_at": c.CreatedAt}
	}, []string{"name"})

	s.events = newTable(func(e *entity.Event) uuid.UUID { return e.Id }, func(e *entity.Event) fields {
		return fields{"id": e.Id, "organizer_id": e.OrganizerId, "category_id": e.CategoryId, "title": e.Title,
			"description": e.Description, "venue": e.Venue, "status": string(e.Status), "starts_at": e.StartsAt,
			"created_at": e.CreatedAt}
	})

	s.coupons = newTable(func(c *entity.Coupon) uuid.UUID { return c.Id }, func(c *entity.Coupon) fields {
		return fields{"id": c.Id, "code": c.Code, "description": c.Description, "is_active": c.IsActive, "created_at": c.CreatedAt}
	}, []string{"code"})

	s.bookings = newTable(func(b *entity.Booking) uuid.UUID { return b.Id }, func(b *entity.Booking) fields {
		return fields{"id": b.Id, "user_id": b.UserId, "event_id": b.EventId, "status": string(b.Status),
			"payment_status": string(b.PaymentStatus), "payment_reference": b.PaymentReference, "coupon_code": b.CouponCode, "created_at": b.CreatedAt}
	})

	s.payments = newTable(func(p *entity.Payment) uuid.UUID { return p.Id }, func(p *entity.Payment) fields {
		return fields{"id": p.Id, "booking_id": p.BookingId, "user_id": p.UserId, "provider_order_id": p.ProviderOrderId,
			"status": string(p.Status), "created_at": p.CreatedAt}
	}, []string{"provider_order_id"})

	s.reports = newTable(func(r *entity.Report) uuid.UUID { return r.Id }, func(r *entity.Report) fields {
		f := fields{"id": r.Id, "user_id": r.UserId, "reported_by": r.ReportedBy, "reason": r.Reason,
			"description": r.Description, "status": string(r.Status), "created_at": r.CreatedAt}
		if u, ok := s.users.rows[r.UserId]; ok {
			f["reported_name"] = u.FullName + " " + u.Email
		}
		if u, ok := s.users.rows[r.ReportedBy]; ok {
			f["reporter_name"] = u.FullName + " " + u.Email
		}
		return f
	}, []string{"user_id", "reported_by"})

	s.features = newTable(func(f *entity.FeatureRequest) uuid.UUID { return f.Id }, func(f *entity.FeatureRequest) fields {
		return fields{"id": f.Id, "user_id": f.UserId, "title": f.Title, "description": f.Description,
			"status": string(f.Status), "created_at": f.CreatedAt}
	})

	s.wallets = newTable(func(w *entity.Wallet) uuid.UUID { return w.Id }, func(w *entity.Wallet) fields {
		return fields{"id": w.Id, "user_id": w.UserId}
	}, []string{"user_id"})

	s.walletTxs = newTable(func(t *entity.WalletTransaction) uuid.UUID { return t.Id }, func(t *entity.WalletTransaction) fields {
		return fields{"id": t.Id, "wallet_id": t.WalletId, "type": string(t.Type), "created_at": t.CreatedAt}
	})

	return s
}

// Factory returns a RepositoryFactory whose units of work all share this store.
func (s *Store) Factory() unitofwork.RepositoryFactory {
	return storeFactory{store: s}
}

// AddNotificationType registers a type the way cmd/seed does for the real database.
func (s *Store) AddNotificationType(t model.NotificationType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notificationTypes[t.Code] = t
}

func (s *Store) SetPreference(p model.UserNotificationPreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[p.UserID] = p
}

type storeFactory struct {
	store *Store
}

func (f storeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}
