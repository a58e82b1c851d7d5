package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mouradhm/migrations-dashboard/pkg/activities"
	"github.com/mouradhm/migrations-dashboard/pkg/config"
	"github.com/mouradhm/migrations-dashboard/pkg/logger"
	"github.com/mouradhm/migrations-dashboard/pkg/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Define command-line flags
	configPath := flag.String("config", "", "Path to a JSON config file (optional)")
	mongoURI := flag.String("mongo-uri", "", "MongoDB URI (required unless set in config)")
	database := flag.String("db", "", "Database holding the activities collection (required unless set in config)")
	collection := flag.String("collection", "", "Activities collection name (default: activities)")
	listen := flag.String("listen", "", "Listen address (default: :8080)")

	// Parse command-line flags
	flag.Parse()

	// Flags are applied as environment overrides so that validation sees them
	setEnvIfSet("ACTIVITYSERVER_MONGO_URI", *mongoURI)
	setEnvIfSet("ACTIVITYSERVER_DATABASE", *database)
	setEnvIfSet("ACTIVITYSERVER_COLLECTION", *collection)
	setEnvIfSet("ACTIVITYSERVER_LISTEN_ADDR", *listen)

	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		fmt.Println("Error:", err)
		fmt.Println("Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Println("Error: failed to initialize logging:", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Activity server failed")
	}
}

func setEnvIfSet(key, value string) {
	if value != "" {
		_ = os.Setenv(key, value)
	}
}

// run connects to MongoDB and serves the API until interrupted
func run(cfg *config.ServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewComponentLogger("activityserver")

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	log.Info().Str("database", cfg.Database).Str("collection", cfg.Collection).Msg("Connecting to MongoDB")

	store, err := activities.ConnectMongoStore(connectCtx, cfg.MongoURI, cfg.Database, cfg.Collection)
	if err != nil {
		return fmt.Errorf("failed to open activity store: %w", err)
	}

	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()

	if err := store.EnsureIndexes(connectCtx); err != nil {
		log.Warn().Err(err).Msg("Could not create activity indexes")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(store, cfg.ListLimit, log).NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Serving activity API")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	log.Info().Msg("Activity server stopped")

	return nil
}
