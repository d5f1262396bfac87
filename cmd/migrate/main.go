package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/shared/config"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/shared/utils"
)

func main() {
	var module string
	var command string

	flag.StringVar(&module, "module", "ledger", "Migration set under migrations/")
	flag.StringVar(&command, "cmd", "up", "Migration command (up, down, version, force)")
	flag.Parse()

	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	// Migration path
	migrationPath := fmt.Sprintf("file://migrations/%s", module)

	log.Info().
		Str("module", module).
		Str("path", migrationPath).
		Str("database", maskDatabaseURL(cfg.DatabaseURL)).
		Msg("Running migrations")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrate driver")
	}

	// Create migrate instance
	m, err := migrate.NewWithDatabaseInstance(migrationPath, "postgres", driver)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrate instance")
	}
	defer m.Close()

	// Execute command
	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Migration up failed")
		}
		log.Info().Msg("Migrations up completed")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Migration down failed")
		}
		log.Info().Msg("Migrations down completed")

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatal().Err(err).Msg("Failed to get version")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current version")

	case "force":
		if flag.NArg() < 1 {
			log.Fatal().Msg("force needs a version number")
		}
		forceVersion, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			log.Fatal().Str("arg", flag.Arg(0)).Msg("Invalid version number")
		}
		if err := m.Force(forceVersion); err != nil {
			log.Fatal().Err(err).Msg("Force failed")
		}
		log.Info().Int("version", forceVersion).Msg("Forced version")

	default:
		log.Fatal().Str("cmd", command).Msg("Unknown command (use: up, down, version, force)")
	}
}

// maskDatabaseURL hides password in database URL for logging
func maskDatabaseURL(url string) string {
	if len(url) < 20 {
		return "***"
	}
	return url[:20] + "***" + url[len(url)-10:]
}
