package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentRecordStatus string

const (
	PaymentRecordCreated PaymentRecordStatus = "created"
	PaymentRecordPaid    PaymentRecordStatus = "paid"
	PaymentRecordFailed  PaymentRecordStatus = "failed"
)

type Payment struct {
	Id                uuid.UUID
	BookingId         uuid.UUID
	UserId            uuid.UUID
	Provider          PaymentMethod
	ProviderOrderId   string
	ProviderPaymentId string
	Amount            int64
	Currency          string
	Status            PaymentRecordStatus
	CheckoutURL       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
