package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/scheduler"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Storage
	StorageBackend string // csv, sqlite, postgres
	DataDir        string
	SQLitePath     string
	DatabaseURL    string

	// Reconciliation
	MatchThreshold        float64
	MatchAmbiguityEpsilon float64
	ReconcileWorkers      int
	MaxUploadMB           int

	// Scheduled export
	ExportCron string
	ExportDir  string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:                  os.Getenv("PORT"),
		Env:                   os.Getenv("ENV"),
		LogLevel:              os.Getenv("LOG_LEVEL"),
		StorageBackend:        os.Getenv("STORAGE_BACKEND"),
		DataDir:               os.Getenv("DATA_DIR"),
		SQLitePath:            os.Getenv("SQLITE_PATH"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		MatchThreshold:        getFloat("MATCH_THRESHOLD", 0.6),
		MatchAmbiguityEpsilon: getFloat("MATCH_AMBIGUITY_EPSILON", 0),
		ReconcileWorkers:      getInt("RECONCILE_WORKERS", 4),
		MaxUploadMB:           getInt("MAX_UPLOAD_MB", 10),
		ExportCron:            os.Getenv("EXPORT_CRON"),
		ExportDir:             os.Getenv("EXPORT_DIR"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = "csv"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = cfg.DataDir + "/warehouse.db"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "./exports"
	}

	return cfg
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "csv", "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (use csv, sqlite or postgres)", c.StorageBackend)
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("MATCH_THRESHOLD must be in (0, 1], got %v", c.MatchThreshold)
	}
	if c.MatchAmbiguityEpsilon < 0 || c.MatchAmbiguityEpsilon >= 1 {
		return fmt.Errorf("MATCH_AMBIGUITY_EPSILON must be in [0, 1), got %v", c.MatchAmbiguityEpsilon)
	}
	if c.ReconcileWorkers < 1 {
		return fmt.Errorf("RECONCILE_WORKERS must be at least 1, got %d", c.ReconcileWorkers)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be at least 1, got %d", c.MaxUploadMB)
	}
	if c.ExportCron != "" {
		if err := scheduler.Validate(c.ExportCron); err != nil {
			return fmt.Errorf("EXPORT_CRON: %w", err)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid number, using default")
		return def
	}
	return v
}

func getInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid integer, using default")
		return def
	}
	return v
}
