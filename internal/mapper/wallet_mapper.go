package mapper

import (
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/model"
)

type WalletMapper struct{}

func NewWalletMapper() *WalletMapper {
	return &WalletMapper{}
}

func (m *WalletMapper) ToEntity(w *model.Wallet) *entity.Wallet {
	if w == nil {
		return nil
	}
	return &entity.Wallet{
		Id:        w.Id,
		UserId:    w.UserId,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (m *WalletMapper) ToModel(w *entity.Wallet) *model.Wallet {
	return &model.Wallet{
		Id:        w.Id,
		UserId:    w.UserId,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func (m *WalletMapper) TransactionToEntity(t *model.WalletTransaction) *entity.WalletTransaction {
	return &entity.WalletTransaction{
		Id:           t.Id,
		WalletId:     t.WalletId,
		Type:         entity.WalletTransactionType(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Reference:    t.Reference,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
	}
}

func (m *WalletMapper) TransactionToModel(t *entity.WalletTransaction) *model.WalletTransaction {
	return &model.WalletTransaction{
		Id:           t.Id,
		WalletId:     t.WalletId,
		Type:         string(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Reference:    t.Reference,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
	}
}
