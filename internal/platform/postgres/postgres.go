// Package postgres opens the connection pool and applies the embedded schema migrations.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookcatalog/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

// Open creates a pool for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(dsn), err)
	}
	log.Info().Str("dsn", RedactDSN(dsn)).Msg("database connection OK")
	return pool, nil
}

// Migrate brings the schema up to the latest embedded migration.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return RunMigrations(ctx, pool, "up")
}

// RunMigrations executes a goose command (up, down or status) against the embedded migrations.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, command string) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	goose.SetBaseFS(db.Migrations)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, sqlDB, db.MigrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	case "down":
		if err := goose.DownContext(ctx, sqlDB, db.MigrationsDir); err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
	case "status":
		if err := goose.StatusContext(ctx, sqlDB, db.MigrationsDir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	return nil
}

// RedactDSN hides the credentials of a URL style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
