package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dzielazebrane/archiwum/internal/domain"
	"github.com/dzielazebrane/archiwum/internal/storage"
)

// Enricher batch-loads result-page metadata. Both queries take the full id
// set of the page in one round trip.
type Enricher struct {
	db *pgxpool.Pool
}

func NewEnricher(pool *ConnectionPool) *Enricher {
	return &Enricher{db: pool.GetConn()}
}

func (e *Enricher) VolumesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Volume, error) {
	volumes := make(map[int64]domain.Volume, len(ids))
	if len(ids) == 0 {
		return volumes, nil
	}

	rows, err := e.db.Query(ctx, `
		SELECT id, COALESCE(number, 0), COALESCE(title, ''),
		       COALESCE(year_from, 0), COALESCE(year_to, 0), COALESCE(status, '')
		FROM volumes
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load volumes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Volume
		if err := rows.Scan(&v.ID, &v.Number, &v.Title, &v.YearFrom, &v.YearTo, &v.Status); err != nil {
			return nil, fmt.Errorf("failed to scan volume: %w", err)
		}
		volumes[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return volumes, nil
}

func (e *Enricher) TagsByDocumentIDs(ctx context.Context, ids []int64) (map[int64][]domain.Tag, error) {
	tags := make(map[int64][]domain.Tag, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}

	rows, err := e.db.Query(ctx, `
		SELECT dt.document_id, t.id, t.name, COALESCE(t.slug, ''), COALESCE(t.color, '')
		FROM document_tags dt
		JOIN tags t ON t.id = dt.tag_id
		WHERE dt.document_id = ANY($1)
		ORDER BY t.name
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load document tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID int64
		var t domain.Tag
		if err := rows.Scan(&docID, &t.ID, &t.Name, &t.Slug, &t.Color); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags[docID] = append(tags[docID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return tags, nil
}

var _ storage.Enricher = (*Enricher)(nil)
