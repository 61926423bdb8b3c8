package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskCallReminder = "calls.reminder"

// CallReminderPayload identifies the schedule a reminder was enqueued for.
// NextCallUnix lets the worker drop reminders made stale by a later reschedule.
type CallReminderPayload struct {
	LeadID       string `json:"leadId"`
	NextCallUnix int64  `json:"nextCallUnix"`
}

// NextCallDate returns the scheduled instant carried by the payload.
func (p CallReminderPayload) NextCallDate() time.Time {
	return time.Unix(p.NextCallUnix, 0)
}

// callReminderTaskID makes each (lead, schedule) pair enqueue at most once.
func callReminderTaskID(leadID uuid.UUID, nextCallDate time.Time) string {
	return fmt.Sprintf("call-reminder:%s:%d", leadID, nextCallDate.Unix())
}

func NewCallReminderTask(leadID uuid.UUID, nextCallDate time.Time) (*asynq.Task, error) {
	data, err := json.Marshal(CallReminderPayload{
		LeadID:       leadID.String(),
		NextCallUnix: nextCallDate.Unix(),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCallReminder, data), nil
}

func ParseCallReminderPayload(task *asynq.Task) (CallReminderPayload, error) {
	var payload CallReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CallReminderPayload{}, err
	}
	return payload, nil
}
