package model

import (
	"time"

	"github.com/google/uuid"
)

type Report struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reports_pair,priority:1"`
	ReportedUser *User     `gorm:"foreignKey:UserId"`
	ReportedBy   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reports_pair,priority:2"`
	Reporter     *User     `gorm:"foreignKey:ReportedBy"`
	Reason       string    `gorm:"type:varchar(100);not null"`
	Description  string    `gorm:"type:text"`
	AdminNote    string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Report) TableName() string {
	return "reports"
}
