package db

import (
	"context"
	"fmt"
	"log/slog"

	"studio-booking/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the embedded schema. Every statement is idempotent, so
// running it against an up-to-date database is a no-op.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := migrations.Files()
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	for _, name := range names {
		sql, err := migrations.Read(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		slog.Info("migration applied", "file", name)
	}
	return nil
}
