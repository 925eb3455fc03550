package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HubOverrideRepoImpl implements repository.HubOverrideRepository on
// PostgreSQL. Organization names are stored case-folded; matching happens
// in memory once per run.
type HubOverrideRepoImpl struct {
	db *pgxpool.Pool
}

func NewHubOverrideRepo(db *pgxpool.Pool) *HubOverrideRepoImpl {
	return &HubOverrideRepoImpl{db: db}
}

// Upsert records a curated hub URL for an organization.
func (r *HubOverrideRepoImpl) Upsert(ctx context.Context, organization, url string) error {
	query := `
		INSERT INTO hub_overrides (organization, url)
		VALUES ($1, $2)
		ON CONFLICT (organization) DO UPDATE SET url = EXCLUDED.url;
	`
	_, err := r.db.Exec(ctx, query, strings.ToLower(strings.TrimSpace(organization)), url)
	return err
}

// FindAll loads the whole curated mapping.
func (r *HubOverrideRepoImpl) FindAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT organization, url FROM hub_overrides;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[string]string)
	for rows.Next() {
		var organization, url string
		if err := rows.Scan(&organization, &url); err != nil {
			return nil, err
		}
		overrides[organization] = url
	}
	return overrides, rows.Err()
}
