package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Port         string
	LogLevel     string
	StoreBackend string

	// Postgres (STORE_BACKEND=postgres)
	DBURL string

	// MongoDB (STORE_BACKEND=mongo)
	MongoURI string
	MongoDB  string

	// Export artifact storage. Empty bucket disables saveToStorage.
	ExportBucket string
	ExportURLTTL time.Duration
}

// Load reads required values from environment variables and fails fast when
// the selected store backend is missing its connection settings.
func Load() (Config, error) {
	cfg := Config{
		Port:         envOr("PORT", "8080"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		StoreBackend: strings.ToLower(envOr("STORE_BACKEND", BackendPostgres)),
		DBURL:        strings.TrimSpace(os.Getenv("DB_URL")),
		MongoURI:     strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDB:      envOr("MONGO_DB", "noise_db"),
		ExportBucket: strings.TrimSpace(os.Getenv("EXPORT_BUCKET")),
		ExportURLTTL: 15 * time.Minute,
	}

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DBURL == "" {
			return Config{}, errors.New("DB_URL required when STORE_BACKEND=postgres")
		}
	case BackendMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGO_URI required when STORE_BACKEND=mongo")
		}
	case BackendMemory:
		// No settings; data is lost on restart.
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if raw := strings.TrimSpace(os.Getenv("EXPORT_URL_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("EXPORT_URL_TTL must be a positive duration, got %q", raw)
		}
		cfg.ExportURLTTL = ttl
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
