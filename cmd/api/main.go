package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kam_backend/internal/adapters"
	"kam_backend/internal/events"
	apphttp "kam_backend/internal/http"
	"kam_backend/internal/http/router"
	"kam_backend/internal/leads"
	leadsrepo "kam_backend/internal/leads/repository"
	"kam_backend/internal/orders"
	ordersrepo "kam_backend/internal/orders/repository"
	"kam_backend/internal/performance"
	"kam_backend/internal/scheduler"
	"kam_backend/platform/config"
	"kam_backend/platform/db"
	"kam_backend/platform/lock"
	"kam_backend/platform/logger"
	"kam_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	pool, err := db.Connect(ctx, cfg, log, true)
	if err != nil {
		log.Error("failed to prepare database", "error", err)
		panic("failed to prepare database: " + err.Error())
	}
	defer pool.Close()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	locker, closeLocker := initLeadLocker(cfg, log)
	if closeLocker != nil {
		defer closeLocker()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsRepo := leadsrepo.New(pool)
	ordersRepo := ordersrepo.New(pool)

	leadsModule := leads.NewModule(leadsRepo, eventBus, locker, val, leads.Config{
		PlanningLocation: cfg.GetCallPlanningLocation(),
		PhoneRegion:      cfg.GetDefaultPhoneRegion(),
	}, log)

	// Anti-Corruption Layer: orders and performance see leads only through adapters
	ordersModule := orders.NewModule(ordersRepo, adapters.NewOrdersLeadChecker(leadsRepo), val, log)
	performanceModule := performance.NewModule(
		adapters.NewPerformanceAccountReader(leadsRepo),
		adapters.NewPerformanceOrderFinder(ordersRepo),
		cfg.GetPerformanceConcurrency(),
		log,
	)

	// Call reminders follow every schedule change
	adapters.NewCallReminderSubscriber(reminderScheduler, log).RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			leadsModule,
			ordersModule,
			performanceModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; call reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

// initLeadLocker serializes interaction recording per lead when Redis is
// available. Without Redis concurrent interactions on one lead may race.
func initLeadLocker(cfg config.LockConfig, log *logger.Logger) (lock.Locker, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; per-lead locking disabled")
		return lock.NoopLocker{}, nil
	}

	opt, err := scheduler.RedisOptions(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		log.Error("failed to parse redis url for lead locking", "error", err)
		return lock.NoopLocker{}, nil
	}

	rdb := redis.NewClient(opt)
	return lock.NewRedisLocker(rdb, cfg.GetLeadLockTTL()), func() {
		_ = rdb.Close()
	}
}
