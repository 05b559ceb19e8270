package memory

import (
	"context"
	"fmt"

	"ticket-marketplace-be/internal/repository/contract"
)

type unitOfWork struct {
	store *Store
	inTx  bool
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	return nil
}

func (u *unitOfWork) Rollback() error {
	u.inTx = false
	return nil
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepo{s: u.store}
}

func (u *unitOfWork) CategoryRepository() contract.CategoryRepository {
	return &categoryRepo{s: u.store}
}

func (u *unitOfWork) EventRepository() contract.EventRepository {
	return &eventRepo{s: u.store}
}

func (u *unitOfWork) CouponRepository() contract.CouponRepository {
	return &couponRepo{s: u.store}
}

func (u *unitOfWork) BookingRepository() contract.BookingRepository {
	return &bookingRepo{s: u.store}
}

func (u *unitOfWork) PaymentRepository() contract.PaymentRepository {
	return &paymentRepo{s: u.store}
}

func (u *unitOfWork) ReportRepository() contract.ReportRepository {
	return &reportRepo{s: u.store}
}

func (u *unitOfWork) FeatureRequestRepository() contract.FeatureRequestRepository {
	return &featureRepo{s: u.store}
}

func (u *unitOfWork) WalletRepository() contract.WalletRepository {
	return &walletRepo{s: u.store}
}
