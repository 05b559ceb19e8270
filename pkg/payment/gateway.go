// Package payment wraps the hosted checkout providers behind one Gateway
// interface. Each provider also exposes the verification its callback needs.
package payment

import (
	"context"
	"errors"

	"ticket-marketplace-be/internal/entity"

	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("payment provider is not configured")

// Order is what the booking flow asks a provider to charge.
type Order struct {
	BookingId     uuid.UUID
	Amount        int64 // minor units
	Currency      string
	Description   string
	Quantity      int
	CustomerName  string
	CustomerEmail string
}

// Checkout is handed back to the client to open the provider's widget.
type Checkout struct {
	Provider    entity.PaymentMethod
	OrderId     string
	Amount      int64
	Currency    string
	KeyId       string
	CheckoutURL string
	Token       string
}

type Gateway interface {
	Method() entity.PaymentMethod
	CreateOrder(ctx context.Context, order Order) (*Checkout, error)
}

// SignatureVerifier checks a client-side payment callback (Razorpay).
type SignatureVerifier interface {
	VerifySignature(orderId, paymentId, signature string) bool
}

// SessionResult is the provider's view of a hosted checkout session.
type SessionResult struct {
	SessionId string
	PaymentId string
	Paid      bool
}

// SessionFetcher looks a checkout session up server-side (Stripe).
type SessionFetcher interface {
	FetchSession(ctx context.Context, sessionId string) (*SessionResult, error)
}

// Notification is the subset of a Midtrans webhook body used for verification.
type Notification struct {
	OrderId           string
	StatusCode        string
	GrossAmount       string
	SignatureKey      string
	TransactionStatus string
}

type NotificationVerifier interface {
	VerifyNotification(n Notification) bool
}

// Registry maps a payment method to its gateway. Unconfigured providers are absent.
type Registry map[entity.PaymentMethod]Gateway

func NewRegistry(gateways ...Gateway) Registry {
	r := make(Registry, len(gateways))
	for _, g := range gateways {
		if g != nil {
			r[g.Method()] = g
		}
	}
	return r
}

func (r Registry) Get(method entity.PaymentMethod) (Gateway, error) {
	g, ok := r[method]
	if !ok {
		return nil, ErrNotConfigured
	}
	return g, nil
}

var (
	_ Gateway              = (*Razorpay)(nil)
	_ Gateway              = (*Stripe)(nil)
	_ Gateway              = (*Midtrans)(nil)
	_ SignatureVerifier    = (*Razorpay)(nil)
	_ SessionFetcher       = (*Stripe)(nil)
	_ NotificationVerifier = (*Midtrans)(nil)
)
