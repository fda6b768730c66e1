package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/quietnest/noise-event-service/internal/blob"
	"github.com/quietnest/noise-event-service/internal/config"
	"github.com/quietnest/noise-event-service/internal/httpserver"
	"github.com/quietnest/noise-event-service/internal/store"
)

// main boots the service: config → logging → store → blob storage → HTTP.
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}

	// The store handle is constructed exactly once and injected into every
	// operation; there is no lazily-initialized global.
	st, err := newStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to connect to store")
	}
	defer st.Close()

	// Export artifact storage is optional; without a bucket, saveToStorage
	// exports report storage as unavailable.
	var uploader blob.Uploader
	if cfg.ExportBucket != "" {
		up, err := blob.NewS3Uploader(context.Background(), cfg.ExportBucket, cfg.ExportURLTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure export storage")
		}
		uploader = up
	}

	router := httpserver.NewRouter(st, uploader, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("server started")

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}

	logger.Info().Msg("server shutdown complete")
}

// newStore selects the reading-store backend from configuration.
func newStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		return store.NewMongoStore(cfg.MongoURI, cfg.MongoDB)
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	default:
		pg, err := store.NewPostgresStore(cfg.DBURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	}
}
