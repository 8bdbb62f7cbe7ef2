package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")

	// Command-specific flags
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version for -cmd=version")

	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    *cmd,
		"driver": cfg.DB.Driver,
	})

	// Commands that do NOT require DB. They author or check migration
	// files in the source tree, for both driver dirs at once.
	switch *cmd {
	case "create":
		if *name == "" {
			fmt.Fprintln(os.Stderr, "missing -name for create")
			os.Exit(1)
		}
		logg.Info(ctx, "migrate ready")
		for _, dir := range []string{migrate.SQLiteDir, migrate.PostgresDir} {
			path, err := migrate.CreateSQLMigration(dir, *name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to create migration: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("created migration:", path)
		}
		return

	case "validate":
		logg.Info(ctx, "migrate ready")
		if err := migrate.ValidateDirs(migrate.SQLiteDir, migrate.PostgresDir); err != nil {
			fmt.Fprintf(os.Stderr, "migration validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migration validation passed")
		return
	}

	// Everything else needs DB
	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "migrate ready")

	switch *cmd {
	case "up":
		if err := migrate.Run(ctx, sqlDB, cfg.DB.Driver, "up"); err != nil {
			fmt.Fprintf(os.Stderr, "goose up failed: %v\n", err)
			os.Exit(1)
		}

	case "down":
		if err := migrate.Run(ctx, sqlDB, cfg.DB.Driver, "down"); err != nil {
			fmt.Fprintf(os.Stderr, "goose down failed: %v\n", err)
			os.Exit(1)
		}

	case "status":
		if err := migrate.Run(ctx, sqlDB, cfg.DB.Driver, "status"); err != nil {
			fmt.Fprintf(os.Stderr, "goose status failed: %v\n", err)
			os.Exit(1)
		}

	case "version":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "missing -version for version command")
			os.Exit(1)
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, cfg.DB.Driver, *version); err != nil {
			fmt.Fprintf(os.Stderr, "goose version migrate failed: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
