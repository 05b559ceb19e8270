package service

import (
	"context"
	"strings"
	"time"

	"ticket-marketplace-be/internal/dto"
	"ticket-marketplace-be/internal/entity"
	"ticket-marketplace-be/internal/pkg/logger"
	"ticket-marketplace-be/internal/pkg/mailer"
	"ticket-marketplace-be/internal/pkg/serverutils"
	"ticket-marketplace-be/internal/repository/specification"
	"ticket-marketplace-be/internal/repository/unitofwork"
	"ticket-marketplace-be/pkg/admin/coupon"
	adminEvents "ticket-marketplace-be/pkg/admin/events"
	"ticket-marketplace-be/pkg/admin/wallet"
	"ticket-marketplace-be/pkg/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentService interface {
	ValidateCoupon(ctx context.Context, req *dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error)
	VerifyRazorpay(ctx context.Context, userId uuid.UUID, req *dto.RazorpayVerifyRequest) (*dto.PaymentVerifyResponse, error)
	VerifyStripe(ctx context.Context, userId uuid.UUID, req *dto.StripeVerifyRequest) (*dto.PaymentVerifyResponse, error)
	HandleMidtransNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	gateways   payment.Registry
	coupons    *coupon.Manager
	ledger     *bookingLedger
	logger     logger.ILogger
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, gateways payment.Registry, publisher adminEvents.Publisher, email mailer.IEmailService, logger logger.ILogger, currency string) IPaymentService {
	return &paymentService{
		uowFactory: uowFactory,
		gateways:   gateways,
		coupons:    coupon.NewManager(),
		ledger: &bookingLedger{
			wallets:   wallet.NewManager(),
			publisher: publisher,
			email:     email,
			logger:    logger,
			currency:  currency,
		},
		logger: logger,
	}
}

func (s *paymentService) ValidateCoupon(ctx context.Context, req *dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, discount, err := s.coupons.Preview(ctx, uow, strings.TrimSpace(req.Code), req.Amount)
	if err != nil {
		return nil, err
	}
	return &dto.ValidateCouponResponse{
		Code:        c.Code,
		Discount:    discount,
		FinalAmount: req.Amount - discount,
	}, nil
}

func (s *paymentService) VerifyRazorpay(ctx context.Context, userId uuid.UUID, req *dto.RazorpayVerifyRequest) (*dto.PaymentVerifyResponse, error) {
	verifier, err := s.capability(entity.PaymentMethodRazorpay)
	if err != nil {
		return nil, err
	}
	if !verifier.(payment.SignatureVerifier).VerifySignature(req.OrderId, req.PaymentId, req.Signature) {
		s.logger.Warn("PAYMENT", "Razorpay signature mismatch", map[string]interface{}{"order_id": req.OrderId, "user_id": userId.String()})
		return nil, serverutils.BadRequest("Payment signature verification failed")
	}
	return s.settle(ctx, &userId, req.OrderId, req.PaymentId, payment.OutcomePaid)
}

func (s *paymentService) VerifyStripe(ctx context.Context, userId uuid.UUID, req *dto.StripeVerifyRequest) (*dto.PaymentVerifyResponse, error) {
	fetcher, err := s.capability(entity.PaymentMethodStripe)
	if err != nil {
		return nil, err
	}
	result, err := fetcher.(payment.SessionFetcher).FetchSession(ctx, req.SessionId)
	if err != nil {
		return nil, serverutils.Unavailable("Could not reach Stripe, please try again", err)
	}
	outcome := payment.OutcomePending
	if result.Paid {
		outcome = payment.OutcomePaid
	}
	return s.settle(ctx, &userId, result.SessionId, result.PaymentId, outcome)
}

// HandleMidtransNotification is the server-to-server webhook. Unknown orders
// are acknowledged so Midtrans stops retrying.
func (s *paymentService) HandleMidtransNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	verifier, err := s.capability(entity.PaymentMethodMidtrans)
	if err != nil {
		return err
	}
	ok := verifier.(payment.NotificationVerifier).VerifyNotification(payment.Notification{
		OrderId:           req.OrderId,
		StatusCode:        req.StatusCode,
		GrossAmount:       req.GrossAmount,
		SignatureKey:      req.SignatureKey,
		TransactionStatus: req.TransactionStatus,
	})
	if !ok {
		s.logger.Warn("PAYMENT", "Midtrans signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return serverutils.Forbidden("Invalid signature")
	}

	outcome := payment.MidtransOutcome(req.TransactionStatus)
	if req.TransactionStatus == "capture" && req.FraudStatus == "challenge" {
		outcome = payment.OutcomePending
	}

	s.logger.Info("PAYMENT", "Midtrans notification", map[string]interface{}{
		"order_id": req.OrderId,
		"status":   req.TransactionStatus,
	})

	_, err = s.settle(ctx, nil, req.OrderId, req.TransactionId, outcome)
	if appErr, ok := serverutils.AsAppError(err); ok && appErr.Code == fiber.StatusNotFound {
		return nil
	}
	return err
}

func (s *paymentService) capability(method entity.PaymentMethod) (payment.Gateway, error) {
	g, err := s.gateways.Get(method)
	if err != nil {
		return nil, serverutils.BadRequest("Payment method " + string(method) + " is not available")
	}
	return g, nil
}

// settle applies a provider outcome to the payment record and its booking.
// Repeated confirmations of the same order are no-ops. When owner is set the
// booking must belong to that user.
func (s *paymentService) settle(ctx context.Context, owner *uuid.UUID, orderId, providerPaymentId string, outcome payment.Outcome) (*dto.PaymentVerifyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	record, err := uow.PaymentRepository().FindOne(ctx, specification.ByProviderOrder{OrderID: orderId}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, serverutils.NotFound("Payment not found")
	}
	if owner != nil && record.UserId != *owner {
		return nil, serverutils.Forbidden("Payment belongs to another user")
	}

	booking, err := s.ledger.lockBooking(ctx, uow, record.BookingId)
	if err != nil {
		return nil, err
	}

	confirmed := false
	switch outcome {
	case payment.OutcomePaid:
		if record.Status != entity.PaymentRecordPaid {
			record.Status = entity.PaymentRecordPaid
			record.ProviderPaymentId = providerPaymentId
			record.UpdatedAt = time.Now()
			if err := uow.PaymentRepository().Update(ctx, record); err != nil {
				return nil, err
			}
		}
		confirmed, err = s.ledger.markPaid(ctx, uow, booking, providerPaymentId)
		if err != nil {
			return nil, err
		}
	case payment.OutcomeFailed:
		if record.Status == entity.PaymentRecordCreated {
			record.Status = entity.PaymentRecordFailed
			record.UpdatedAt = time.Now()
			if err := uow.PaymentRepository().Update(ctx, record); err != nil {
				return nil, err
			}
		}
		if err := s.ledger.markFailed(ctx, uow, booking); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	if confirmed {
		s.ledger.announceConfirmed(ctx, s.uowFactory.NewUnitOfWork(ctx), booking)
	}

	return &dto.PaymentVerifyResponse{
		BookingId:     booking.Id.String(),
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
	}, nil
}
