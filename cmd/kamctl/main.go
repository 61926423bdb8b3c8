// Command kamctl runs maintenance tasks against the key-account database:
// schema migrations, demo data seeding, and performance reports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kam_backend/internal/adapters"
	"kam_backend/internal/events"
	"kam_backend/internal/leads"
	leadsrepo "kam_backend/internal/leads/repository"
	"kam_backend/internal/orders"
	ordersrepo "kam_backend/internal/orders/repository"
	"kam_backend/internal/performance"
	"kam_backend/internal/store/memstore"
	"kam_backend/platform/config"
	"kam_backend/platform/db"
	"kam_backend/platform/lock"
	"kam_backend/platform/logger"
	"kam_backend/platform/validator"

	"github.com/spf13/cobra"
)

// defaultPhoneRegion matches DEFAULT_PHONE_REGION's fallback.
const defaultPhoneRegion = "IN"

var (
	memoryFlag bool
	rootCmd    = &cobra.Command{
		Use:           "kamctl",
		Short:         "Maintenance CLI for the key-account backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// runtime holds the services a command works with.
type runtime struct {
	log         *logger.Logger
	leads       *leads.Module
	orders      *orders.Module
	performance *performance.Module
	bus         *events.InMemoryBus
	close       func()
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&memoryFlag, "memory", false, "Use an in-memory store pre-loaded with demo data instead of DATABASE_URL")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newReportCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if memoryFlag {
				return fmt.Errorf("migrate needs a database; drop --memory")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cfg.Env, os.Stderr)

			pool, err := db.NewPool(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			if err := db.RunMigrations(cmd.Context(), pool); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			version, err := db.MigrationStatus(cmd.Context(), pool)
			if err != nil {
				return fmt.Errorf("read migration status: %w", err)
			}
			log.Info("database migrations complete", "version", version)
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}
}

// openRuntime wires the modules against Postgres, or against memstore when
// --memory is set. With seedMemory the in-memory store gets the demo data
// so reports have something to read.
func openRuntime(ctx context.Context, seedMemory bool) (*runtime, error) {
	if memoryFlag {
		log := logger.NewWithWriter(os.Getenv("APP_ENV"), os.Stderr)
		store := memstore.New()
		rt := wireRuntime(store.Leads(), store.Orders(), log, time.Local, defaultPhoneRegion, 0)
		rt.close = func() {}
		if !seedMemory {
			return rt, nil
		}
		if _, err := seed(ctx, rt); err != nil {
			return nil, err
		}
		return rt, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(cfg.Env, os.Stderr)

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rt := wireRuntime(leadsrepo.New(pool), ordersrepo.New(pool), log,
		cfg.GetCallPlanningLocation(), cfg.GetDefaultPhoneRegion(), cfg.GetPerformanceConcurrency())
	rt.close = pool.Close
	return rt, nil
}

func wireRuntime(leadsRepo leadsrepo.LeadsRepository, ordersRepo ordersrepo.OrdersRepository, log *logger.Logger, planning *time.Location, region string, concurrency int) *runtime {
	bus := events.NewInMemoryBus(log)
	val := validator.New()

	leadsModule := leads.NewModule(leadsRepo, bus, lock.NoopLocker{}, val, leads.Config{
		PlanningLocation: planning,
		PhoneRegion:      region,
	}, log)
	ordersModule := orders.NewModule(ordersRepo, adapters.NewOrdersLeadChecker(leadsRepo), val, log)
	performanceModule := performance.NewModule(
		adapters.NewPerformanceAccountReader(leadsRepo),
		adapters.NewPerformanceOrderFinder(ordersRepo),
		concurrency,
		log,
	)

	return &runtime{
		log:         log,
		leads:       leadsModule,
		orders:      ordersModule,
		performance: performanceModule,
		bus:         bus,
	}
}
