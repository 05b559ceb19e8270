package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPending:  {ReportStatusReviewed, ReportStatusResolved, ReportStatusDismissed},
	ReportStatusReviewed: {ReportStatusResolved, ReportStatusDismissed},
}

// Report is filed by ReportedBy against UserId. The pair is unique.
type Report struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	ReportedBy  uuid.UUID
	Reason      string
	Description string
	AdminNote   string
	Status      ReportStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ReportedUser *User
	Reporter     *User
}

func (r *Report) CanTransitionTo(next ReportStatus) bool {
	for _, s := range reportTransitions[r.Status] {
		if s == next {
			return true
		}
	}
	return false
}
