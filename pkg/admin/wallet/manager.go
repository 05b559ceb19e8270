package wallet

import (
	"context"
	"errors"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Manager moves money in and out of user wallets. Credit and Debit lock the
// wallet row, so callers run them inside uow.Begin/Commit.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// ForUser returns the user's wallet, opening an empty one on first use.
func (m *Manager) ForUser(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, lock bool) (*entity.Wallet, error) {
	specs := []specification.Specification{specification.UserOwnedBy{UserID: userId}}
	if lock {
		specs = append(specs, specification.ForUpdate{})
	}

	wallet, err := uow.WalletRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}

	now := time.Now()
	wallet = &entity.Wallet{Id: uuid.New(), UserId: userId, CreatedAt: now, UpdatedAt: now}
	if err := uow.WalletRepository().Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (m *Manager) Credit(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount int64, reference, description string) (*entity.Wallet, *entity.WalletTransaction, error) {
	return m.apply(ctx, uow, userId, func(w *entity.Wallet) (*entity.WalletTransaction, error) {
		return w.Credit(amount, reference, description)
	})
}

func (m *Manager) Debit(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount int64, reference, description string) (*entity.Wallet, *entity.WalletTransaction, error) {
	return m.apply(ctx, uow, userId, func(w *entity.Wallet) (*entity.WalletTransaction, error) {
		return w.Debit(amount, reference, description)
	})
}

func (m *Manager) apply(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, op func(*entity.Wallet) (*entity.WalletTransaction, error)) (*entity.Wallet, *entity.WalletTransaction, error) {
	wallet, err := m.ForUser(ctx, uow, userId, true)
	if err != nil {
		return nil, nil, err
	}

	tx, err := op(wallet)
	if err != nil {
		if errors.Is(err, entity.ErrInsufficientFunds) || errors.Is(err, entity.ErrInvalidAmount) {
			return nil, nil, serverutils.BadRequest(err.Error())
		}
		return nil, nil, err
	}

	wallet.UpdatedAt = time.Now()
	if err := uow.WalletRepository().Update(ctx, wallet); err != nil {
		return nil, nil, err
	}
	if err := uow.WalletRepository().CreateTransaction(ctx, tx); err != nil {
		return nil, nil, err
	}
	return wallet, tx, nil
}

func (m *Manager) Transactions(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, q dto.PageQuery) ([]*entity.WalletTransaction, int64, error) {
	q.Normalize()

	wallet, err := m.ForUser(ctx, uow, userId, false)
	if err != nil {
		return nil, 0, err
	}

	byWallet := specification.Filter("wallet_id", wallet.Id)
	total, err := uow.WalletRepository().CountTransactions(ctx, byWallet)
	if err != nil {
		return nil, 0, err
	}
	items, err := uow.WalletRepository().FindTransactions(ctx, byWallet,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(q.Page, q.Limit),
	)
	return items, total, err
}
