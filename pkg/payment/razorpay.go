package payment

import (
	"context"
	"fmt"

	"ticket-marketplace-be/internal/entity"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

type Razorpay struct {
	client *razorpay.Client
	keyId  string
	secret string
}

// NewRazorpay returns nil when either credential is missing.
func NewRazorpay(keyId, secret string) *Razorpay {
	if keyId == "" || secret == "" {
		return nil
	}
	return &Razorpay{
		client: razorpay.NewClient(keyId, secret),
		keyId:  keyId,
		secret: secret,
	}
}

func (r *Razorpay) Method() entity.PaymentMethod { return entity.PaymentMethodRazorpay }

func (r *Razorpay) CreateOrder(ctx context.Context, order Order) (*Checkout, error) {
	data := map[string]interface{}{
		"amount":   order.Amount,
		"currency": order.Currency,
		"receipt":  order.BookingId.String(),
		"notes": map[string]interface{}{
			"booking_id": order.BookingId.String(),
		},
	}
	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order: missing id in response")
	}
	return &Checkout{
		Provider: entity.PaymentMethodRazorpay,
		OrderId:  id,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyId:    r.keyId,
	}, nil
}

// VerifySignature checks HMAC-SHA256(order_id|payment_id) against the key secret.
func (r *Razorpay) VerifySignature(orderId, paymentId, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderId,
		"razorpay_payment_id": paymentId,
	}
	return utils.VerifyPaymentSignature(params, signature, r.secret)
}
