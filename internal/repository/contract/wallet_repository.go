package contract

import (
	"context"

	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/repository/specification"
)

type WalletRepository interface {
	Create(ctx context.Context, wallet *entity.Wallet) error
	Update(ctx context.Context, wallet *entity.Wallet) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Wallet, error)

	CreateTransaction(ctx context.Context, tx *entity.WalletTransaction) error
	FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.WalletTransaction, error)
	CountTransactions(ctx context.Context, specs ...specification.Specification) (int64, error)
}
