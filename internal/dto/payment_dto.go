package dto

type ValidateCouponRequest struct {
	Code   string `json:"code" validate:"required"`
	Amount int64  `json:"amount" validate:"gt=0"`
}

type ValidateCouponResponse struct {
	Code        string `json:"code"`
	Discount    int64  `json:"discount"`
	FinalAmount int64  `json:"final_amount"`
}

type RazorpayVerifyRequest struct {
	OrderId   string `json:"order_id" validate:"required"`
	PaymentId string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type StripeVerifyRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionId     string `json:"transaction_id"`
}

type PaymentVerifyResponse struct {
	BookingId     string `json:"booking_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}
