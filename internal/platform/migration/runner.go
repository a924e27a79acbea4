// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration brings the member schema up to date at startup with
// golang-migrate, before the server accepts traffic.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	_ "github.com/golang-migrate/migrate/v4/source/file"     // registers file://
)

// RunUp applies every pending up migration under migrationsPath.
//
// A dirty database stops startup; it is never forced.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, Pgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if closeErr := errors.Join(sourceErr, databaseErr); closeErr != nil {
			logger.Warn("migration_close_failed", slog.Any("error", closeErr))
		}
	}()

	migrator.Log = &slogAdapter{
		logger:  logger,
		verbose: logger.Enabled(context.Background(), slog.LevelDebug),
	}

	from, err := currentVersion(migrator)
	if err != nil {
		return err
	}

	switch err := migrator.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	case err != nil:
		return fmt.Errorf("migration: up from version %d failed: %w", from, err)
	}

	to, err := currentVersion(migrator)
	if err != nil {
		return err
	}

	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// currentVersion returns 0 for an empty database and fails on a dirty one.
func currentVersion(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: failed to read version: %w", err)
	case dirty:
		return 0, fmt.Errorf("migration: database is dirty at version %d, fix it manually", version)
	}
	return version, nil
}

// Pgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// expected by the golang-migrate pgx/v5 driver.
func Pgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogAdapter implements migrate.Logger on top of slog.
type slogAdapter struct {
	logger  *slog.Logger
	verbose bool
}

func (a *slogAdapter) Printf(format string, args ...any) {
	a.logger.Debug("migration_progress", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (a *slogAdapter) Verbose() bool {
	return a.verbose
}
