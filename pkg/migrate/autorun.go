package migrate

import (
	"context"
	"fmt"

	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// MaybeRun executes the embedded migrations at boot when the feature flag is
// enabled. The default sqlite store owns its schema, so this is on unless a
// deployment manages migrations externally.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (auto-run)")

	if err := Run(ctx, sqlDB, cfg.DB.Driver, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
