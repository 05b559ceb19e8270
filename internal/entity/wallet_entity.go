package entity

import (
	"time"

	"github.com/google/uuid"
)

type WalletTransactionType string

const (
	WalletCredit WalletTransactionType = "credit"
	WalletDebit  WalletTransactionType = "debit"
)

type Wallet struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WalletTransaction struct {
	Id           uuid.UUID
	WalletId     uuid.UUID
	Type         WalletTransactionType
	Amount       int64
	BalanceAfter int64
	Reference    string
	Description  string
	CreatedAt    time.Time
}

func (w *Wallet) Credit(amount int64, reference, description string) (*WalletTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	w.Balance += amount
	return w.transaction(WalletCredit, amount, reference, description), nil
}

func (w *Wallet) Debit(amount int64, reference, description string) (*WalletTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > w.Balance {
		return nil, ErrInsufficientFunds
	}
	w.Balance -= amount
	return w.transaction(WalletDebit, amount, reference, description), nil
}

func (w *Wallet) transaction(t WalletTransactionType, amount int64, reference, description string) *WalletTransaction {
	return &WalletTransaction{
		Id:           uuid.New(),
		WalletId:     w.Id,
		Type:         t,
		Amount:       amount,
		BalanceAfter: w.Balance,
		Reference:    reference,
		Description:  description,
		CreatedAt:    time.Now(),
	}
}
