package scheduler

import (
	"context"
	"errors"
	"fmt"

	"kam_backend/internal/events"
	leadsrepo "kam_backend/internal/leads/repository"
	"kam_backend/platform/config"
	"kam_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const defaultConcurrency = 10

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads leadsrepo.LeadReader, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = defaultQueue
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TaskCallReminder, NewCallReminderProcessor(leads, bus, log))

	return &Worker{
		server: server,
		mux:    mux,
		log:    log,
	}, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// CallReminderProcessor turns due reminder tasks into CallReminderDue events.
type CallReminderProcessor struct {
	leads leadsrepo.LeadReader
	bus   events.Bus
	log   *logger.Logger
}

func NewCallReminderProcessor(leads leadsrepo.LeadReader, bus events.Bus, log *logger.Logger) *CallReminderProcessor {
	return &CallReminderProcessor{leads: leads, bus: bus, log: log}
}

// ProcessTask drops reminders for deleted leads and for schedules that were
// replaced after the task was enqueued.
func (p *CallReminderProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCallReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	lead, err := p.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return nil
		}
		return err
	}

	if lead.NextCallDate.Unix() != payload.NextCallUnix {
		p.log.Debug("stale call reminder dropped", "leadId", leadID, "scheduled", payload.NextCallDate(), "current", lead.NextCallDate)
		return nil
	}

	if p.bus == nil {
		return nil
	}

	return p.bus.PublishSync(ctx, events.CallReminderDue{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		LeadName:     lead.Name,
		NextCallDate: lead.NextCallDate,
	})
}

var _ asynq.Handler = (*CallReminderProcessor)(nil)
