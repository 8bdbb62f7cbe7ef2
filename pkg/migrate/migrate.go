package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embeddedMigrations embed.FS

// Source-tree locations, used by the create/validate commands which author
// new migration files rather than execute embedded ones.
const (
	SQLiteDir   = "pkg/migrate/migrations/sqlite"
	PostgresDir = "pkg/migrate/migrations/postgres"
)

// Dialect maps the configured driver name onto a goose dialect.
func Dialect(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	case "postgres":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported migration driver %q", driver)
	}
}

func embeddedDir(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return "migrations/sqlite", nil
	case "postgres":
		return "migrations/postgres", nil
	default:
		return "", fmt.Errorf("unsupported migration driver %q", driver)
	}
}

// Run executes a standard goose command against the embedded migrations for
// the given driver.
func Run(ctx context.Context, db *sql.DB, driver string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	dialect, err := Dialect(driver)
	if err != nil {
		return err
	}
	dir, err := embeddedDir(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(embeddedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, driver string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	dialect, err := Dialect(driver)
	if err != nil {
		return err
	}
	dir, err := embeddedDir(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(embeddedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", targetVersion, err)
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
