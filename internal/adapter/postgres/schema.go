package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id              BIGSERIAL PRIMARY KEY,
	organization    TEXT NOT NULL,
	title           TEXT NOT NULL,
	url             TEXT NOT NULL UNIQUE,
	summary         TEXT NOT NULL DEFAULT '',
	source_strategy TEXT NOT NULL DEFAULT '',
	inferred_year   INT NOT NULL DEFAULT 0,
	discovered_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_documents_organization ON documents (lower(organization));

CREATE TABLE IF NOT EXISTS hub_overrides (
	organization TEXT PRIMARY KEY,
	url          TEXT NOT NULL
);
`

// EnsureSchema creates the tables on startup when they do not exist.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
