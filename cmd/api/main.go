package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stockroomhq/stockroom-backend/api/routes"
	"github.com/stockroomhq/stockroom-backend/internal/backups"
	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/items"
	"github.com/stockroomhq/stockroom-backend/internal/ledger"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
	"github.com/stockroomhq/stockroom-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	stockMetrics := metrics.NewStockMetrics(reg)

	svc, err := inventory.NewService(
		items.NewRepository(dbClient.DB()),
		ledger.NewRepository(dbClient.DB()),
		dbClient,
		stockMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	backupSvc := backups.NewService(cfg.DB, cfg.Backup, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, reg, httpMetrics, svc, backupSvc),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
