// Package migrate wraps goose: running SQL migrations, targeting a specific
// schema version, scaffolding new files, and linting the migration directory.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

// The migration set ships inside the binary, so running migrations does not
// depend on the working directory or the source tree being present.
//
//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// DefaultDir addresses the embedded migration set. Passing any other
// directory reads SQL files from disk instead.
const DefaultDir = "migrations"

// SourceDir is where the migration files live in the repository, for
// scaffolding and linting new files.
const SourceDir = "pkg/migrate/migrations"

func setSource(dir string) error {
	if dir == DefaultDir {
		goose.SetBaseFS(embeddedMigrations)
	} else {
		goose.SetBaseFS(nil)
	}
	// The schema files use postgres types (uuid, numeric, jsonb).
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Run executes a goose command (up, down, status, ...) against the database.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if err := setSource(dir); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema to an exact version, choosing up-to or
// down-to based on where the database currently sits.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	if err := setSource(dir); err != nil {
		return err
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
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
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}
