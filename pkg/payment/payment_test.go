package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"ticket-marketplace-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviders_RequireCredentials(t *testing.T) {
	assert.Nil(t, NewRazorpay("", "secret"))
	assert.Nil(t, NewRazorpay("key", ""))
	assert.Nil(t, NewStripe("", "http://x/return", "http://x/cancel"))
	assert.Nil(t, NewMidtrans("", false, ""))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewRazorpay("rzp_test", "secret"))

	g, err := r.Get(entity.PaymentMethodRazorpay)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentMethodRazorpay, g.Method())

	_, err = r.Get(entity.PaymentMethodStripe)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRazorpay_VerifySignature(t *testing.T) {
	r := NewRazorpay("rzp_test", "topsecret")

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write([]byte("order_1|pay_1"))
	sig := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, r.VerifySignature("order_1", "pay_1", sig))
	assert.False(t, r.VerifySignature("order_1", "pay_2", sig))
	assert.False(t, r.VerifySignature("order_1", "pay_1", "bogus"))
}

func TestMidtrans_VerifyNotification(t *testing.T) {
	m := NewMidtrans("SB-Mid-server-key", false, "http://localhost/done")
	sig := m.Signature("order-1", "200", "150000.00")

	assert.True(t, m.VerifyNotification(Notification{OrderId: "order-1", StatusCode: "200", GrossAmount: "150000.00", SignatureKey: sig}))
	assert.False(t, m.VerifyNotification(Notification{OrderId: "order-1", StatusCode: "200", GrossAmount: "1.00", SignatureKey: sig}))
}

func TestMidtransOutcome(t *testing.T) {
	tests := map[string]Outcome{
		"settlement": OutcomePaid,
		"capture":    OutcomePaid,
		"deny":       OutcomeFailed,
		"expire":     OutcomeFailed,
		"cancel":     OutcomeFailed,
		"pending":    OutcomePending,
		"refund":     OutcomePending,
	}
	for status, want := range tests {
		t.Run(status, func(t *testing.T) {
			assert.Equal(t, want, MidtransOutcome(status))
		})
	}
}
