package implementation

import (
	"context"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/mapper"
	"ticket-marketplace-be/internal/model"
	"ticket-marketplace-be/internal/repository/contract"
	"ticket-marketplace-be/internal/repository/specification"

	"gorm.io/gorm"
)

type WalletRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WalletMapper
}

func NewWalletRepository(db *gorm.DB) contract.WalletRepository {
	return &WalletRepositoryImpl{db: db, mapper: mapper.NewWalletMapper()}
}

func (r *WalletRepositoryImpl) Create(ctx context.Context, wallet *entity.Wallet) error {
	m := r.mapper.ToModel(wallet)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*wallet = *r.mapper.ToEntity(m)
	return nil
}

func (r *WalletRepositoryImpl) Update(ctx context.Context, wallet *entity.Wallet) error {
	m := r.mapper.ToModel(wallet)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*wallet = *r.mapper.ToEntity(m)
	return nil
}

func (r *WalletRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Wallet, error) {
	var m model.Wallet
	found, err := first(r.db.WithContext(ctx), &m, specs...)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WalletRepositoryImpl) CreateTransaction(ctx context.Context, tx *entity.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(r.mapper.TransactionToModel(tx)).Error
}

func (r *WalletRepositoryImpl) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.WalletTransaction, error) {
	var models []*model.WalletTransaction
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.WalletTransaction, len(models))
	for i, m := range models {
		out[i] = r.mapper.TransactionToEntity(m)
	}
	return out, nil
}

func (r *WalletRepositoryImpl) CountTransactions(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return count(r.db.WithContext(ctx), &model.WalletTransaction{}, specs...)
}
