// Package events carries in-process notifications between modules: a lead
// schedule moving, an interaction landing, a reminder coming due.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything published on a Bus. Handlers are keyed by EventName.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events. ID lets log lines from several
// handlers of the same publication be correlated.
type BaseEvent struct {
	ID        uuid.UUID `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// EventID returns the publication id.
func (e BaseEvent) EventID() uuid.UUID { return e.ID }

// NewBaseEvent stamps a fresh id and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), Timestamp: time.Now().UTC()}
}

// identified is satisfied by every event embedding BaseEvent.
type identified interface {
	EventID() uuid.UUID
}

func eventID(e Event) string {
	if withID, ok := e.(identified); ok && withID.EventID() != uuid.Nil {
		return withID.EventID().String()
	}
	return ""
}
