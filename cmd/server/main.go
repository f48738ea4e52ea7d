// cmd/server/main.go
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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/folio/internal/config"
	"github.com/codr1/folio/internal/db"
	"github.com/codr1/folio/internal/ratelimit"
	"github.com/codr1/folio/internal/scheduler"
	"github.com/codr1/folio/internal/templates/layouts"
	"github.com/codr1/folio/internal/theming"
)

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	// log.Ctx falls back to the global logger outside of requests.
	zerolog.DefaultContextLogger = &log.Logger
}

// openStorage returns the theme storage for the configured driver and a
// health check for /health. The memory driver has no health check.
func openStorage(cfg *config.Config) (theming.Storage, func(context.Context) error, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn().Msg("Using in-memory theme storage; themes are lost on restart")
		return theming.NewMemoryStorage(), nil, func() {}, nil
	}

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}
	return db.NewStorage(database), database.CheckHealth, closeDB, nil
}

func main() {
	configPath := flag.String("config", "config/app.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	storage, healthCheck, closeStorage, err := openStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open theme storage")
	}
	defer closeStorage()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sheet := layouts.NewStyleSheet()
	store := theming.NewStore(storage, sheet, theming.StoreOptions{StorageKey: cfg.Theme.StorageKey})
	active := store.Hydrate(ctx)
	log.Info().
		Str("theme_name", active.Name).
		Str("storage_key", store.StorageKey()).
		Str("state", store.State().String()).
		Msg("Theme store hydrated")

	catalog, err := theming.LoadCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load preset catalog")
	}

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.ImportMaxIPPerHour = cfg.Theme.ImportLimitPerHour
	limiter := ratelimit.New(limiterConfig)
	defer limiter.Close()

	remote := theming.NewRemotePresets(nil, cfg.Theme.RemotePresets)
	if len(cfg.Theme.RemotePresets) > 0 {
		if err := scheduler.Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize scheduler")
		}
		if err := scheduler.RegisterPresetRefreshJob(remote, cfg.Theme.RefreshCron); err != nil {
			log.Fatal().Err(err).Msg("Failed to register preset refresh job")
		}
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Error().Err(err).Msg("Failed to stop scheduler")
			}
		}()
	}

	server := newServer(cfg, serverDeps{
		store:       store,
		history:     theming.NewHistory(cfg.Theme.HistorySize),
		catalog:     catalog,
		remote:      remote,
		sheet:       sheet,
		limiter:     limiter,
		healthCheck: healthCheck,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
