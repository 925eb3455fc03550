package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/esg-discovery/internal/entity"
)

// DocumentRepoImpl implements repository.DocumentRepository on PostgreSQL.
type DocumentRepoImpl struct {
	db *pgxpool.Pool
}

func NewDocumentRepo(db *pgxpool.Pool) *DocumentRepoImpl {
	return &DocumentRepoImpl{db: db}
}

// Save upserts a verified document keyed by URL. Last write wins on
// metadata fields.
func (r *DocumentRepoImpl) Save(ctx context.Context, doc *entity.VerifiedDocument) error {
	query := `
		INSERT INTO documents (organization, title, url, summary, source_strategy, inferred_year, discovered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO UPDATE SET
			organization = EXCLUDED.organization,
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			source_strategy = EXCLUDED.source_strategy,
			inferred_year = EXCLUDED.inferred_year,
			discovered_at = EXCLUDED.discovered_at;
	`
	_, err := r.db.Exec(ctx, query,
		doc.Organization,
		doc.Title,
		doc.URL,
		doc.Summary,
		doc.SourceStrategy,
		doc.InferredYear,
		doc.DiscoveredAt,
	)
	return err
}

// FindByOrganization returns stored documents for one organization, most
// recent inferred year first.
func (r *DocumentRepoImpl) FindByOrganization(ctx context.Context, organization string) ([]entity.VerifiedDocument, error) {
	query := `
		SELECT id, organization, title, url, summary, source_strategy, inferred_year, discovered_at
		FROM documents
		WHERE lower(organization) = lower($1)
		ORDER BY inferred_year DESC, discovered_at DESC;
	`
	rows, err := r.db.Query(ctx, query, organization)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// FindAll returns every stored document.
func (r *DocumentRepoImpl) FindAll(ctx context.Context) ([]entity.VerifiedDocument, error) {
	query := `
		SELECT id, organization, title, url, summary, source_strategy, inferred_year, discovered_at
		FROM documents
		ORDER BY organization, inferred_year DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// DeleteByURL removes one document.
func (r *DocumentRepoImpl) DeleteByURL(ctx context.Context, url string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM documents WHERE url = $1;`, url)
	return err
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanDocuments(rows pgxRows) ([]entity.VerifiedDocument, error) {
	var docs []entity.VerifiedDocument
	for rows.Next() {
		var d entity.VerifiedDocument
		if err := rows.Scan(
			&d.ID,
			&d.Organization,
			&d.Title,
			&d.URL,
			&d.Summary,
			&d.SourceStrategy,
			&d.InferredYear,
			&d.DiscoveredAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
