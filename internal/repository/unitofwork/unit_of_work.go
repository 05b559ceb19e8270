package unitofwork

import (
	"context"

	"ticket-marketplace-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CategoryRepository() contract.CategoryRepository
	EventRepository() contract.EventRepository
	CouponRepository() contract.CouponRepository
	BookingRepository() contract.BookingRepository
	PaymentRepository() contract.PaymentRepository
	ReportRepository() contract.ReportRepository
	FeatureRequestRepository() contract.FeatureRequestRepository
	WalletRepository() contract.WalletRepository
}
