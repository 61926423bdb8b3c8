package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kam_backend/internal/events"
	leadsrepo "kam_backend/internal/leads/repository"
	"kam_backend/internal/leads/scheduling"
	"kam_backend/internal/scheduler"
	"kam_backend/platform/config"
	"kam_backend/platform/db"
	"kam_backend/platform/lock"
	"kam_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, log, false)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	eventBus.Subscribe(events.CallReminderDue{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.CallReminderDue)
		if !ok {
			return nil
		}
		log.WithContext(ctx).CallReminderDue(e.LeadID.String(), e.LeadName, e.NextCallDate)
		return nil
	}))

	leadsRepo := leadsrepo.New(pool)

	// Worker-side call planning (no HTTP handlers required).
	planner := scheduling.New(leadsRepo, eventBus, lock.NoopLocker{}, cfg.GetCallPlanningLocation(), log)
	digest := scheduler.NewCallPlanningDigest(planner, log, cfg.GetCallPlanningDigestInterval())
	go digest.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, leadsRepo, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}
