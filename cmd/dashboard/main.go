package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mouradhm/migrations-dashboard/pkg/activities"
	"github.com/mouradhm/migrations-dashboard/pkg/config"
	"github.com/mouradhm/migrations-dashboard/pkg/dashboard"
	"github.com/mouradhm/migrations-dashboard/pkg/logger"
	"github.com/mouradhm/migrations-dashboard/pkg/models"
	"github.com/mouradhm/migrations-dashboard/pkg/tui"
)

func main() {
	// Define command-line flags
	configPath := flag.String("config", "", "Path to a JSON config file (optional)")
	endpoint := flag.String("endpoint", "", "Activity API URL (default: http://localhost:8080/api/activities)")
	interval := flag.Duration("interval", 0, "Delay between fetches (default: 15s)")
	headless := flag.Bool("headless", false, "Log refreshes instead of drawing the dashboard")
	logFile := flag.String("log-file", "dashboard.log", "Log file used while the dashboard is drawn")

	// Parse command-line flags
	flag.Parse()

	cfg, err := config.LoadDashboardConfig(*configPath)
	if err != nil {
		fmt.Println("Error:", err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Flags win over file and environment
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}

	if *interval > 0 {
		cfg.PollInterval = models.Duration(*interval)
	}

	if *headless {
		cfg.Headless = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	// The terminal belongs to the dashboard, keep logs out of it
	if !cfg.Headless && (cfg.Logging.Output == "" || cfg.Logging.Output == "stdout") {
		cfg.Logging.Output = *logFile
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Println("Error: failed to initialize logging:", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Dashboard failed")
	}
}

// run wires the client, store and poller and blocks until shutdown
func run(cfg *config.DashboardConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	client := activities.NewClient(cfg.Endpoint, time.Duration(cfg.RequestTimeout))
	store := dashboard.NewStore()
	poller := dashboard.NewPoller(client, store,
		dashboard.WithInterval(time.Duration(cfg.PollInterval)),
		dashboard.WithNormalizer(activities.NewNormalizer(loc)),
		dashboard.WithLogger(logger.NewComponentLogger("poller")),
	)

	if cfg.Headless {
		return runHeadless(ctx, store, poller)
	}

	poller.Start(ctx)
	defer poller.Stop()

	return tui.Run(ctx, store, poller, logger.NewComponentLogger("tui"))
}

// runHeadless logs a summary after every refresh until ctx is cancelled
func runHeadless(ctx context.Context, store *dashboard.Store, poller *dashboard.Poller) error {
	log := logger.WithComponent("dashboard")

	store.Subscribe(func(snap dashboard.Snapshot) {
		log.Info().
			Int("total_migrations", snap.Stats.TotalMigrations).
			Int("success_percentage", snap.Stats.SuccessPercentage).
			Int("failure_percentage", snap.Stats.FailurePercentage).
			Msg("Migrations refreshed")

		for _, row := range snap.Rows {
			if row.HasErrors {
				log.Warn().
					Str("database", row.Name).
					Str("date", row.Date).
					Strs("errors", row.Errors).
					Msg("Migration finished with errors")
			}
		}
	})

	poller.Start(ctx)
	<-ctx.Done()
	poller.Stop()

	log.Info().Msg("Dashboard stopped")

	return nil
}
