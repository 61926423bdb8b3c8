// Package events names the lead lifecycle events exchanged between modules.
// Dispatch lives in platform/events; the aliases below keep callers on a
// single import.
package events

import (
	"time"

	"kam_backend/platform/events"
	"kam_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus returns the in-process bus used by the api and kamctl.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// ScheduleEvents lists the events that move a lead's next call date.
var ScheduleEvents = []string{
	LeadCreated{}.EventName(),
	LeadScheduleChanged{}.EventName(),
	InteractionRecorded{}.EventName(),
}

// --- leads ---

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	Name         string    `json:"name"`
	NextCallDate time.Time `json:"nextCallDate"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadScheduleChanged is published when a lead update re-derives its next call date.
type LeadScheduleChanged struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	NextCallDate time.Time `json:"nextCallDate"`
}

func (e LeadScheduleChanged) EventName() string { return "leads.schedule.changed" }

// InteractionRecorded is published after an interaction is stored and the
// lead's call schedule has been advanced.
type InteractionRecorded struct {
	BaseEvent
	InteractionID   uuid.UUID  `json:"interactionId"`
	LeadID          uuid.UUID  `json:"leadId"`
	UserID          *uuid.UUID `json:"userId,omitempty"`
	InteractionType string     `json:"type"`
	NextCallDate    time.Time  `json:"nextCallDate"`
}

func (e InteractionRecorded) EventName() string { return "leads.interaction.recorded" }

// --- scheduler ---

// CallReminderDue is published by the worker when a lead's scheduled call time arrives.
type CallReminderDue struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	LeadName     string    `json:"leadName"`
	NextCallDate time.Time `json:"nextCallDate"`
}

func (e CallReminderDue) EventName() string { return "scheduler.call_reminder.due" }
