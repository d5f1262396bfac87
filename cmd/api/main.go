package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/export"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/matcher"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/pdfextract"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/handlers"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/repositories"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/services"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/shared/config"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/shared/database"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/micro-warehouse-ledger/cmd/api/docs"
)

const exportJobName = "daily-export"

// @title Warehouse Ledger API
// @version 1.0
// @description Fabric inventory ledger with PDF invoice reconciliation
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Init storage
	repo, closeStore, err := openLedgerRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// Init services
	ledger, err := services.NewLedgerService(ctx, repo)
	if err != nil {
		return err
	}

	nameMatcher, err := matcher.New(cfg.MatchThreshold, cfg.MatchAmbiguityEpsilon)
	if err != nil {
		return err
	}

	extractor := pdfextract.NewService(pdfextract.NewLedongthucProvider())
	reconciler := services.NewReconcileService(extractor, nameMatcher, ledger, cfg.ReconcileWorkers)
	importer := services.NewImportService(ledger)
	exporter := services.NewExportService(ledger, export.NewService())

	utils.LogInfo("Services ready", map[string]interface{}{
		"storage":   repo.Name(),
		"extractor": extractor.GetProviderName(),
		"threshold": nameMatcher.Threshold(),
		"workers":   cfg.ReconcileWorkers,
	})

	// Scheduled export
	if cfg.ExportCron != "" {
		sched := scheduler.NewScheduler()
		err := sched.AddJob(exportJobName, cfg.ExportCron, func() {
			if _, err := exporter.WriteTo(cfg.ExportDir); err != nil {
				utils.LogError("Scheduled export failed", err, map[string]interface{}{"dir": cfg.ExportDir})
			}
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	} else {
		utils.LogWarn("EXPORT_CRON not set, scheduled export disabled", nil)
	}

	maxUploadBytes := int64(cfg.MaxUploadMB) << 20

	// Init handlers
	h := &handlers.Handlers{
		Health:    handlers.NewHealthHandler(ledger, extractor, repo.Name()),
		Inventory: handlers.NewInventoryHandler(ledger, importer, maxUploadBytes),
		Sales:     handlers.NewSalesHandler(ledger),
		Invoice:   handlers.NewInvoiceHandler(reconciler, ledger, maxUploadBytes),
		Report:    handlers.NewReportHandler(exporter, ledger),
	}

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Warehouse Ledger API",
		BodyLimit: int(maxUploadBytes)*handlers.MaxInvoiceFiles + 1<<20,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New())

	handlers.RegisterRoutes(app, h)

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("API listening")
	log.Info().Msgf("Swagger UI: http://localhost:%s/swagger/", cfg.Port)
	return app.Listen(":" + cfg.Port)
}

// openLedgerRepo returns the configured backend and a func releasing it.
func openLedgerRepo(ctx context.Context, cfg *config.Config) (repositories.LedgerRepo, func(), error) {
	switch cfg.StorageBackend {
	case "sqlite":
		db, err := database.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repositories.NewSQLiteLedgerRepo(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil

	case "postgres":
		db, err := database.NewDB(cfg.DatabaseURL, !cfg.IsProduction())
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresLedgerRepo(db.GORM), func() { db.Close() }, nil

	case "csv":
		return repositories.NewCSVLedgerRepo(cfg.DataDir), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
