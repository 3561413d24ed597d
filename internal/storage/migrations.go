package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The unique constraint on provider_place_id is load-bearing: it is what
// guarantees at most one location row per place across concurrent
// submissions from multiple server processes. Postgres treats NULLs as
// distinct under UNIQUE, so manually entered locations (no provider id)
// are never deduplicated against each other.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS locations (
        id uuid PRIMARY KEY,
        provider_place_id text UNIQUE,
        name text NOT NULL,
        address text NOT NULL,
        lat double precision NOT NULL,
        lng double precision NOT NULL,
        created_at timestamptz NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS codes (
        id uuid PRIMARY KEY,
        location_id uuid NOT NULL REFERENCES locations(id),
        code text NOT NULL,
        notes text,
        created_at timestamptz NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS codes_location_id_idx ON codes (location_id)`,
}

// Migrate applies the schema. Every statement is idempotent, so running it
// on each startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
	}
	return nil
}
