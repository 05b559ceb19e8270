package events

import (
	"context"
	"strings"
	"time"
)

// SubjectPrefix namespaces every domain event on the bus.
const SubjectPrefix = "events."

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "BOOKING_CONFIRMED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// EventHandler processes one delivered event. A non-nil error asks the bus to redeliver.
type EventHandler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Subscriber interface {
	Subscribe(subject, durableName string, handler EventHandler) error
}

func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// TypeFromSubject strips the subject prefix. Bare types pass through.
func TypeFromSubject(subject string) string {
	return strings.TrimPrefix(subject, SubjectPrefix)
}

// MatchSubject supports the NATS wildcards "*" (one token) and ">" (the rest).
func MatchSubject(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")
	for i, p := range pt {
		if p == ">" {
			return len(st) > i
		}
		if i >= len(st) {
			return false
		}
		if p != "*" && p != st[i] {
			return false
		}
	}
	return len(pt) == len(st)
}
