package model

import (
	"time"

	"github.com/google/uuid"
)

type Coupon struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Value       int64     `gorm:"not null"`
	MinAmount   int64     `gorm:"not null;default:0"`
	MaxDiscount *int64
	UsageLimit  int `gorm:"not null;default:0"`
	UsedCount   int `gorm:"not null;default:0"`
	ExpiresAt   *time.Time
	IsActive    bool      `gorm:"default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Coupon) TableName() string {
	return "coupons"
}
