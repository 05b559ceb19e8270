package payment

import (
	"context"
	"fmt"
	"strings"

	"ticket-marketplace-be/internal/entity"

	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/checkout/session"
)

type Stripe struct {
	sessions  *session.Client
	returnURL string
	cancelURL string
}

// NewStripe returns nil without a secret key. returnURL is the popup relay
// page; the session id placeholder is appended here.
func NewStripe(secretKey, returnURL, cancelURL string) *Stripe {
	if secretKey == "" {
		return nil
	}
	return &Stripe{
		sessions:  &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		returnURL: returnURL,
		cancelURL: cancelURL,
	}
}

func (s *Stripe) Method() entity.PaymentMethod { return entity.PaymentMethodStripe }

func (s *Stripe) CreateOrder(ctx context.Context, order Order) (*Checkout, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID:  stripe.String(order.BookingId.String()),
		SuccessURL:         stripe.String(s.returnURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(s.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Name:     stripe.String(order.Description),
				Amount:   stripe.Int64(order.Amount),
				Currency: stripe.String(strings.ToLower(order.Currency)),
				Quantity: stripe.Int64(1),
			},
		},
	}
	if order.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(order.CustomerEmail)
	}
	params.Context = ctx
	params.SetIdempotencyKey("booking-" + order.BookingId.String())

	sess, err := s.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe session: %w", err)
	}
	return &Checkout{
		Provider: entity.PaymentMethodStripe,
		OrderId:  sess.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Token:    sess.ID,
	}, nil
}

// FetchSession reports a session as paid once its payment intent has succeeded.
func (s *Stripe) FetchSession(ctx context.Context, sessionId string) (*SessionResult, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	sess, err := s.sessions.Get(sessionId, params)
	if err != nil {
		return nil, fmt.Errorf("stripe session: %w", err)
	}

	res := &SessionResult{SessionId: sess.ID}
	if pi := sess.PaymentIntent; pi != nil {
		res.PaymentId = pi.ID
		res.Paid = pi.Status == stripe.PaymentIntentStatusSucceeded
	}
	return res, nil
}
