package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizerId uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryId  *uuid.UUID `gorm:"type:uuid;index"`
	Category    *Category  `gorm:"foreignKey:CategoryId"`
	Title       string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	Venue       string     `gorm:"type:varchar(200);not null"`
	Address     string     `gorm:"type:text"`
	Latitude    *float64
	Longitude   *float64
	StartsAt    time.Time      `gorm:"not null;index"`
	EndsAt      time.Time      `gorm:"not null"`
	TicketPrice int64          `gorm:"not null;default:0"`
	Capacity    int            `gorm:"not null"`
	BookedCount int            `gorm:"not null;default:0"`
	ImageURL    string         `gorm:"type:text"`
	Status      string         `gorm:"type:varchar(20);not null;default:'draft';index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Event) TableName() string {
	return "events"
}
