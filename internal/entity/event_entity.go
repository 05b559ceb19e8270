package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:     {EventStatusPublished, EventStatusCancelled},
	EventStatusPublished: {EventStatusCancelled, EventStatusCompleted},
}

type Event struct {
	Id           uuid.UUID
	OrganizerId  uuid.UUID
	CategoryId   *uuid.UUID
	CategoryName string
	Title        string
	Description  string
	Venue        string
	Address      string
	Latitude     *float64
	Longitude    *float64
	StartsAt     time.Time
	EndsAt       time.Time
	TicketPrice  int64 // minor units
	Capacity     int
	BookedCount  int
	ImageURL     string
	Status       EventStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e *Event) Remaining() int {
	if r := e.Capacity - e.BookedCount; r > 0 {
		return r
	}
	return 0
}

func (e *Event) IsBookable(now time.Time) bool {
	return e.Status == EventStatusPublished && now.Before(e.StartsAt) && e.Remaining() > 0
}

func (e *Event) CanTransitionTo(next EventStatus) bool {
	for _, s := range eventTransitions[e.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// Reserve claims seats. The caller holds the row lock.
func (e *Event) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > e.Remaining() {
		return ErrNotEnoughSeats
	}
	e.BookedCount += quantity
	return nil
}

func (e *Event) Release(quantity int) {
	e.BookedCount -= quantity
	if e.BookedCount < 0 {
		e.BookedCount = 0
	}
}
