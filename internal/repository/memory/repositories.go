package memory

import (
	"context"
	"sort"
	"time"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/repository/contract"
	"ticket-marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
)

func ptrs[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

// --- users ---

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users.insert(*u)
}

func (r *userRepo) Update(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users.save(*u)
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users.delete(id)
	return nil
}

func (r *userRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users.first(specs); ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return ptrs(r.s.users.query(specs)), nil
}

func (r *userRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users.count(specs), nil
}

func (r *userRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users.rows[id]; ok {
		u.Status = status
		r.s.users.rows[id] = u
	}
	return nil
}

func (r *userRepo) CreateRefreshToken(ctx context.Context, t *entity.UserRefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.tokens.insert(*t)
}

func (r *userRepo) FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tokens.first(specs); ok {
		return &t, nil
	}
	return nil, nil
}

func (r *userRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.tokens.rows {
		if t.TokenHash == tokenHash {
			t.Revoked = true
			r.s.tokens.rows[id] = t
		}
	}
	return nil
}

func (r *userRepo) RevokeAllRefreshTokens(ctx context.Context, userId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.tokens.rows {
		if t.UserId == userId {
			t.Revoked = true
			r.s.tokens.rows[id] = t
		}
	}
	return nil
}

func (r *userRepo) SaveUserProvider(ctx context.Context, p *entity.UserProvider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.providers.save(*p)
}

func (r *userRepo) FindUserProvider(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.providers.first(specs); ok {
		return &p, nil
	}
	return nil, nil
}

// --- categories ---

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(ctx context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.categories.insert(*c)
}

func (r *categoryRepo) Update(ctx context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.categories.save(*c)
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories.delete(id)
	return nil
}

func (r *categoryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories.first(specs); ok {
		return &c, nil
	}
	return nil, nil
}

func (r *categoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return ptrs(r.s.categories.query(specs)), nil
}

func (r *categoryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.categories.count(specs), nil
}

// --- events ---

type eventRepo struct{ s *Store }

func (r *eventRepo) withCategory(e entity.Event) *entity.Event {
	if e.CategoryId != nil {
		if c, ok := r.s.categories.rows[*e.CategoryId]; ok {
			e.CategoryName = c.Name
		}
	}
	return &e
}

func (r *eventRepo) Create(ctx context.Context, e *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.events.insert(*e)
}

func (r *eventRepo) Update(ctx context.Context, e *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.events.save(*e)
}

func (r *eventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events.delete(id)
	return nil
}

func (r *eventRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.events.first(specs); ok {
		return r.withCategory(e), nil
	}
	return nil, nil
}

func (r *eventRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.s.events.query(specs)
	out := make([]*entity.Event, len(rows))
	for i, e := range rows {
		out[i] = r.withCategory(e)
	}
	return out, nil
}

func (r *eventRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.events.count(specs), nil
}

func (r *eventRepo) UpdateBookedCount(ctx context.Context, id uuid.UUID, bookedCount int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.events.rows[id]; ok {
		e.BookedCount = bookedCount
		r.s.events.rows[id] = e
	}
	return nil
}

// --- coupons ---

type couponRepo struct{ s *Store }

func (r *couponRepo) Create(ctx context.Context, c *entity.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.coupons.insert(*c)
}

func (r *couponRepo) Update(ctx context.Context, c *entity.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.coupons.save(*c)
}

func (r *couponRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.coupons.delete(id)
	return nil
}

func (r *couponRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.coupons.first(specs); ok {
		return &c, nil
	}
	return nil, nil
}

func (r *couponRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return ptrs(r.s.coupons.query(specs)), nil
}

func (r *couponRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.coupons.count(specs), nil
}

func (r *couponRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.coupons.rows[id]; ok {
		c.UsedCount++
		r.s.coupons.rows[id] = c
	}
	return nil
}

// --- bookings and payments ---

type bookingRepo struct{ s *Store }

func (r *bookingRepo) withTitle(b entity.Booking) *entity.Booking {
	if e, ok := r.s.events.rows[b.EventId]; ok {
		b.EventTitle = e.Title
	}
	return &b
}

func (r *bookingRepo) Create(ctx context.Context, b *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.bookings.insert(*b)
}

func (r *bookingRepo) Update(ctx context.Context, b *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.bookings.save(*b)
}

func (r *bookingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bookings.first(specs); ok {
		return r.withTitle(b), nil
	}
	return nil, nil
}

func (r *bookingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.s.bookings.query(specs)
	out := make([]*entity.Booking, len(rows))
	for i, b := range rows {
		out[i] = r.withTitle(b)
	}
	return out, nil
}

func (r *bookingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.bookings.count(specs), nil
}

func (r *bookingRepo) SumRevenue(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, b := range r.s.bookings.rows {
		if b.PaymentStatus == entity.PaymentStatusPaid {
			total += b.Total
		}
	}
	return total, nil
}

func (r *bookingRepo) RevenueByMonth(ctx context.Context, since time.Time) ([]contract.MonthlyRevenue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byMonth := map[string]*contract.MonthlyRevenue{}
	for _, b := range r.s.bookings.rows {
		if b.PaymentStatus != entity.PaymentStatusPaid || b.CreatedAt.Before(since) {
			continue
		}
		m := b.CreatedAt.Format("2006-01")
		if byMonth[m] == nil {
			byMonth[m] = &contract.MonthlyRevenue{Month: m}
		}
		byMonth[m].Revenue += b.Total
		byMonth[m].Bookings++
	}
	out := make([]contract.MonthlyRevenue, 0, len(byMonth))
	for _, v := range byMonth {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (r *bookingRepo) TopEvents(ctx context.Context, limit int) ([]contract.EventSales, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byEvent := map[uuid.UUID]*contract.EventSales{}
	for _, b := range r.s.bookings.rows {
		if b.Status != entity.BookingStatusConfirmed {
			continue
		}
		if byEvent[b.EventId] == nil {
			byEvent[b.EventId] = &contract.EventSales{EventId: b.EventId, Title: r.s.events.rows[b.EventId].Title}
		}
		byEvent[b.EventId].TicketsSold += int64(b.Quantity)
		byEvent[b.EventId].Revenue += b.Total
	}
	out := make([]contract.EventSales, 0, len(byEvent))
	for _, v := range byEvent {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketsSold > out[j].TicketsSold })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.payments.insert(*p)
}

func (r *paymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.payments.save(*p)
}

func (r *paymentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.payments.first(specs); ok {
		return &p, nil
	}
	return nil, nil
}

// --- moderation ---

type reportRepo struct{ s *Store }

func (r *reportRepo) withUsers(rep entity.Report) *entity.Report {
	if u, ok := r.s.users.rows[rep.UserId]; ok {
		rep.ReportedUser = &u
	}
	if u, ok := r.s.users.rows[rep.ReportedBy]; ok {
		rep.Reporter = &u
	}
	return &rep
}

func (r *reportRepo) Create(ctx context.Context, rep *entity.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.reports.insert(*rep)
}

func (r *reportRepo) Update(ctx context.Context, rep *entity.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.reports.save(*rep)
}

func (r *reportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reports.delete(id)
	return nil
}

func (r *reportRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rep, ok := r.s.reports.first(specs); ok {
		return r.withUsers(rep), nil
	}
	return nil, nil
}

func (r *reportRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.s.reports.query(specs)
	out := make([]*entity.Report, len(rows))
	for i, rep := range rows {
		out[i] = r.withUsers(rep)
	}
	return out, nil
}

func (r *reportRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.reports.count(specs), nil
}

type featureRepo struct{ s *Store }

func (r *featureRepo) Create(ctx context.Context, f *entity.FeatureRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.features.insert(*f)
}

func (r *featureRepo) Update(ctx context.Context, f *entity.FeatureRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.features.save(*f)
}

func (r *featureRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.features.delete(id)
	return nil
}

func (r *featureRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f, ok := r.s.features.first(specs); ok {
		return &f, nil
	}
	return nil, nil
}

func (r *featureRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return ptrs(r.s.features.query(specs)), nil
}

func (r *featureRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.features.count(specs), nil
}

// --- wallets ---

type walletRepo struct{ s *Store }

func (r *walletRepo) Create(ctx context.Context, w *entity.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.wallets.insert(*w)
}

func (r *walletRepo) Update(ctx context.Context, w *entity.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.wallets.save(*w)
}

func (r *walletRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.wallets.first(specs); ok {
		return &w, nil
	}
	return nil, nil
}

func (r *walletRepo) CreateTransaction(ctx context.Context, t *entity.WalletTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.walletTxs.insert(*t)
}

func (r *walletRepo) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.WalletTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return ptrs(r.s.walletTxs.query(specs)), nil
}

func (r *walletRepo) CountTransactions(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.walletTxs.count(specs), nil
}
