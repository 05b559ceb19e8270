package model

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	User             *User     `gorm:"foreignKey:UserId"`
	EventId          uuid.UUID `gorm:"type:uuid;not null;index"`
	Event            *Event    `gorm:"foreignKey:EventId"`
	Quantity         int       `gorm:"not null"`
	UnitPrice        int64     `gorm:"not null"`
	Subtotal         int64     `gorm:"not null"`
	Discount         int64     `gorm:"not null;default:0"`
	Total            int64     `gorm:"not null"`
	CouponCode       *string   `gorm:"type:varchar(50)"`
	Status           string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod    string    `gorm:"type:varchar(20);not null"`
	PaymentStatus    string    `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentReference string    `gorm:"type:varchar(255)"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

type Payment struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookingId         uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId            uuid.UUID `gorm:"type:uuid;not null;index"`
	Provider          string    `gorm:"type:varchar(20);not null"`
	ProviderOrderId   string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ProviderPaymentId string    `gorm:"type:varchar(255)"`
	Amount            int64     `gorm:"not null"`
	Currency          string    `gorm:"type:varchar(3);not null"`
	Status            string    `gorm:"type:varchar(20);not null;default:'created'"`
	CheckoutURL       string    `gorm:"type:text"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
