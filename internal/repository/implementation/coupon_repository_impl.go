package implementation

import (
	"context"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/mapper"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/repository/contract"
	"ticket-marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CouponRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewCouponRepository(db *gorm.DB) contract.CouponRepository {
	return &CouponRepositoryImpl{db: db, mapper: mapper.NewCatalogMapper()}
}

func (r *CouponRepositoryImpl) Create(ctx context.Context, coupon *entity.Coupon) error {
	m := r.mapper.CouponToModel(coupon)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*coupon = *r.mapper.CouponToEntity(m)
	return nil
}

func (r *CouponRepositoryImpl) Update(ctx context.Context, coupon *entity.Coupon) error {
	m := r.mapper.CouponToModel(coupon)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*coupon = *r.mapper.CouponToEntity(m)
	return nil
}

func (r *CouponRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Coupon{}).Error
}

func (r *CouponRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Coupon, error) {
	var m model.Coupon
	found, err := first(r.db.WithContext(ctx), &m, specs...)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.CouponToEntity(&m), nil
}

func (r *CouponRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Coupon, error) {
	var models []*model.Coupon
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.CouponsToEntities(models), nil
}

func (r *CouponRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count(r.db.WithContext(ctx), &model.Coupon{}, specs...)
}

func (r *CouponRepositoryImpl) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Coupon{}).Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}
