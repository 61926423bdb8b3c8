package adapters

import (
	"context"
	"time"

	"kam_backend/internal/events"
	"kam_backend/internal/scheduler"
	"kam_backend/platform/logger"

	"github.com/google/uuid"
)

// CallReminderSubscriber enqueues a call reminder whenever a lead's next call
// date is set, translating leads events into scheduler jobs.
type CallReminderSubscriber struct {
	reminders scheduler.ReminderScheduler
	log       *logger.Logger
}

// NewCallReminderSubscriber creates a subscriber. A nil scheduler disables reminders.
func NewCallReminderSubscriber(reminders scheduler.ReminderScheduler, log *logger.Logger) *CallReminderSubscriber {
	return &CallReminderSubscriber{reminders: reminders, log: log}
}

// RegisterHandlers subscribes to the events that move a lead's schedule.
func (s *CallReminderSubscriber) RegisterHandlers(bus events.Bus) {
	for _, name := range events.ScheduleEvents {
		bus.Subscribe(name, s)
	}
}

// Handle routes events to the reminder scheduler.
func (s *CallReminderSubscriber) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return s.schedule(ctx, e.LeadID, e.NextCallDate)
	case events.InteractionRecorded:
		return s.schedule(ctx, e.LeadID, e.NextCallDate)
	case events.LeadScheduleChanged:
		return s.schedule(ctx, e.LeadID, e.NextCallDate)
	default:
		return nil
	}
}

func (s *CallReminderSubscriber) schedule(ctx context.Context, leadID uuid.UUID, nextCallDate time.Time) error {
	if s.reminders == nil {
		return nil
	}
	if err := s.reminders.ScheduleCallReminder(ctx, leadID, nextCallDate); err != nil {
		s.log.Warn("failed to schedule call reminder", "leadId", leadID, "nextCallDate", nextCallDate, "error", err)
		return err
	}
	return nil
}

var _ events.Handler = (*CallReminderSubscriber)(nil)
