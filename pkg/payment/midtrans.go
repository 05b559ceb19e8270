package payment

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"ticket-marketplace-be/internal/entity"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type Midtrans struct {
	client    snap.Client
	serverKey string
	finishURL string
}

func NewMidtrans(serverKey string, production bool, finishURL string) *Midtrans {
	if serverKey == "" {
		return nil
	}
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	m := &Midtrans{serverKey: serverKey, finishURL: finishURL}
	m.client.New(serverKey, env)
	return m
}

func (m *Midtrans) Method() entity.PaymentMethod { return entity.PaymentMethodMidtrans }

func (m *Midtrans) CreateOrder(ctx context.Context, order Order) (*Checkout, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.BookingId.String(),
			GrossAmt: order.Amount,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
		Callbacks:  &snap.Callbacks{Finish: m.finishURL},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: order.CustomerName,
			Email: order.CustomerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    order.BookingId.String(),
				Price: order.Amount,
				Qty:   1,
				Name:  truncate(order.Description, 50),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	resp, midErr := m.client.CreateTransaction(req)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %s", midErr.GetMessage())
	}
	return &Checkout{
		Provider:    entity.PaymentMethodMidtrans,
		OrderId:     order.BookingId.String(),
		Amount:      order.Amount,
		Currency:    order.Currency,
		CheckoutURL: resp.RedirectURL,
		Token:       resp.Token,
	}, nil
}

// Signature returns SHA512(order_id + status_code + gross_amount + server_key).
func (m *Midtrans) Signature(orderId, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderId + statusCode + grossAmount + m.serverKey))
	return hex.EncodeToString(sum[:])
}

func (m *Midtrans) VerifyNotification(n Notification) bool {
	expected := m.Signature(n.OrderId, n.StatusCode, n.GrossAmount)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// Outcome classifies a Midtrans transaction_status.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomePaid
	OutcomeFailed
)

func MidtransOutcome(status string) Outcome {
	switch status {
	case "capture", "settlement":
		return OutcomePaid
	case "deny", "cancel", "expire":
		return OutcomeFailed
	}
	return OutcomePending
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
