package scheduler

import (
	"context"
	"time"

	leadstransport "kam_backend/internal/leads/transport"
	"kam_backend/platform/logger"
)

const defaultCallPlanningDigestInterval = time.Hour

// DuePlanner answers which leads are due for a call today.
type DuePlanner interface {
	GetLeadsDueToday(ctx context.Context) ([]leadstransport.LeadResponse, error)
}

// CallPlanningDigest periodically logs the size of today's call list.
type CallPlanningDigest struct {
	planner  DuePlanner
	log      *logger.Logger
	interval time.Duration
}

func NewCallPlanningDigest(planner DuePlanner, log *logger.Logger, interval time.Duration) *CallPlanningDigest {
	if interval <= 0 {
		interval = defaultCallPlanningDigestInterval
	}

	return &CallPlanningDigest{
		planner:  planner,
		log:      log,
		interval: interval,
	}
}

func (d *CallPlanningDigest) Run(ctx context.Context) {
	if d == nil || d.planner == nil {
		return
	}

	d.digest(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.digest(ctx)
		}
	}
}

// digest returns the number of due leads, or -1 when the lookup failed.
func (d *CallPlanningDigest) digest(ctx context.Context) int {
	due, err := d.planner.GetLeadsDueToday(ctx)
	if err != nil {
		d.log.Warn("call planning digest failed", "error", err)
		return -1
	}

	if len(due) == 0 {
		d.log.Debug("call planning digest: no leads due")
		return 0
	}

	names := make([]string, 0, len(due))
	for _, lead := range due {
		names = append(names, lead.Name)
	}
	d.log.CallPlanningDigest(len(due), names)
	return len(due)
}
