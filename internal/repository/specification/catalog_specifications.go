package specification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByName compares case-insensitively, used for category uniqueness.
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(s.Name)))
}

// ByCode matches coupon codes, which are stored upper-case.
type ByCode struct {
	Code string
}

func (s ByCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("code = ?", strings.ToUpper(strings.TrimSpace(s.Code)))
}

type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type OrganizedBy struct {
	OrganizerID uuid.UUID
}

func (s OrganizedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("organizer_id = ?", s.OrganizerID)
}

type InCategory struct {
	CategoryID *uuid.UUID
}

func (s InCategory) Apply(db *gorm.DB) *gorm.DB {
	if s.CategoryID == nil {
		return db
	}
	return db.Where("category_id = ?", *s.CategoryID)
}

type StartsAfter struct {
	Time time.Time
}

func (s StartsAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("starts_at > ?", s.Time)
}

type ForEvent struct {
	EventID uuid.UUID
}

func (s ForEvent) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_id = ?", s.EventID)
}

type ByProviderOrder struct {
	OrderID string
}

func (s ByProviderOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider_order_id = ?", s.OrderID)
}
