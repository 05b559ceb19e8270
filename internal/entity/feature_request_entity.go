package entity

import (
	"time"

	"github.com/google/uuid"
)

type FeatureRequestStatus string

const (
	FeatureRequestPending    FeatureRequestStatus = "pending"
	FeatureRequestPlanned    FeatureRequestStatus = "planned"
	FeatureRequestInProgress FeatureRequestStatus = "in_progress"
	FeatureRequestCompleted  FeatureRequestStatus = "completed"
	FeatureRequestRejected   FeatureRequestStatus = "rejected"
)

type FeatureRequest struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Title       string
	Description string
	Status      FeatureRequestStatus
	AdminNote   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
