package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportPair identifies the one report a reporter may file against a user.
type ReportPair struct {
	UserID     uuid.UUID
	ReportedBy uuid.UUID
}

func (s ReportPair) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ? AND reported_by = ?", s.UserID, s.ReportedBy)
}

// ReportSearch matches reason or description, or either party's name/email.
type ReportSearch struct {
	Term string
}

func (s ReportSearch) Apply(db *gorm.DB) *gorm.DB {
	if s.Term == "" {
		return db
	}
	like := "%" + s.Term + "%"
	return db.Where(
		`(reports.reason ILIKE ? OR reports.description ILIKE ?
		OR reports.user_id IN (SELECT id FROM users WHERE full_name ILIKE ? OR email ILIKE ?)
		OR reports.reported_by IN (SELECT id FROM users WHERE full_name ILIKE ? OR email ILIKE ?))`,
		like, like, like, like, like, like,
	)
}
