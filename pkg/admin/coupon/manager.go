package coupon

import (
	"context"
	"strings"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) List(ctx context.Context, uow unitofwork.UnitOfWork, q dto.PageQuery) ([]*entity.Coupon, int64, error) {
	q.Normalize()
	search := specification.Search{Fields: []string{"code", "description"}, Term: q.Search}

	total, err := uow.CouponRepository().Count(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	items, err := uow.CouponRepository().FindAll(ctx, search,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(q.Page, q.Limit),
	)
	return items, total, err
}

func (m *Manager) Create(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CouponRequest) (*entity.Coupon, error) {
	coupon := &entity.Coupon{Id: uuid.New(), CreatedAt: time.Now(), IsActive: true}
	if err := m.apply(ctx, uow, coupon, req); err != nil {
		return nil, err
	}
	if err := uow.CouponRepository().Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (m *Manager) Update(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.CouponRequest) (*entity.Coupon, error) {
	coupon, err := m.get(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if err := m.apply(ctx, uow, coupon, req); err != nil {
		return nil, err
	}
	if err := uow.CouponRepository().Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) error {
	if _, err := m.get(ctx, uow, id); err != nil {
		return err
	}
	return uow.CouponRepository().Delete(ctx, id)
}

// Preview prices amount against a code without consuming the coupon.
func (m *Manager) Preview(ctx context.Context, uow unitofwork.UnitOfWork, code string, amount int64) (*entity.Coupon, int64, error) {
	coupon, err := uow.CouponRepository().FindOne(ctx, specification.ByCode{Code: code})
	if err != nil {
		return nil, 0, err
	}
	if coupon == nil {
		return nil, 0, serverutils.NotFound("Coupon not found")
	}
	if err := coupon.Validate(amount, time.Now()); err != nil {
		return nil, 0, serverutils.BadRequest(err.Error())
	}
	return coupon, coupon.Discount(amount), nil
}

func (m *Manager) apply(ctx context.Context, uow unitofwork.UnitOfWork, c *entity.Coupon, req dto.CouponRequest) error {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	existing, err := uow.CouponRepository().FindOne(ctx, specification.ByCode{Code: code})
	if err != nil {
		return err
	}
	if existing != nil && existing.Id != c.Id {
		return serverutils.Conflict("Coupon code already exists")
	}

	if err := ValidateValue(entity.CouponType(req.Type), req.Value); err != nil {
		return err
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return serverutils.BadRequest("expires_at must be an RFC3339 timestamp")
		}
		expiresAt = &t
	}

	c.Code = code
	c.Type = entity.CouponType(req.Type)
	c.Value = req.Value
	c.MinAmount = req.MinAmount
	c.MaxDiscount = req.MaxDiscount
	c.UsageLimit = req.UsageLimit
	c.ExpiresAt = expiresAt
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.UpdatedAt = time.Now()
	return nil
}

// ValidateValue: a percentage must be in (0, 100], a fixed amount must be positive.
func ValidateValue(t entity.CouponType, value int64) error {
	switch t {
	case entity.CouponTypePercentage:
		if value <= 0 || value > 100 {
			return serverutils.BadRequest("Percentage value must be between 1 and 100")
		}
	case entity.CouponTypeFixed:
		if value <= 0 {
			return serverutils.BadRequest("Fixed value must be greater than 0")
		}
	default:
		return serverutils.BadRequest("Unknown coupon type")
	}
	return nil
}

func (m *Manager) get(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Coupon, error) {
	coupon, err := uow.CouponRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, serverutils.NotFound("Coupon not found")
	}
	return coupon, nil
}
