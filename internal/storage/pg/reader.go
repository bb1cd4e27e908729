package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dzielazebrane/archiwum/internal/apperr"
	"github.com/dzielazebrane/archiwum/internal/domain"
)

// Reader serves single-document loads and the dictionary/statistic queries
// behind the search surface.
type Reader struct {
	db *pgxpool.Pool
}

func NewReader(pool *ConnectionPool) *Reader {
	return &Reader{db: pool.GetConn()}
}

// GetDocument loads one document with its volume, honoring the visibility
// predicate. A missing or hidden document is a not-found outcome.
func (r *Reader) GetDocument(ctx context.Context, id int64, includeUnpublished bool) (*domain.Document, *domain.Volume, error) {
	where := []string{"d.id = $1"}
	if !includeUnpublished {
		where = append(where, publishedVolumeFilter)
	}

	sql := fmt.Sprintf(`
		SELECT d.id, COALESCE(d.title, ''), COALESCE(d.subtitle, ''), COALESCE(d.content, ''),
		       COALESCE(d.location, ''), d.event_date, COALESCE(d.document_type, ''),
		       COALESCE(d.addressee, ''), COALESCE(d.words_count, 0), COALESCE(d.slug, ''), d.volume_id,
		       v.id, v.number, v.title, v.year_from, v.year_to, v.status
		FROM documents d
		LEFT JOIN volumes v ON v.id = d.volume_id%s
	`, whereSQL(where))

	var doc domain.Document
	var volID *int64
	var volNumber, volYearFrom, volYearTo *int
	var volTitle, volStatus *string

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&doc.ID, &doc.Title, &doc.Subtitle, &doc.Content,
		&doc.Location, &doc.EventDate, &doc.DocumentType,
		&doc.Addressee, &doc.WordsCount, &doc.Slug, &doc.VolumeID,
		&volID, &volNumber, &volTitle, &volYearFrom, &volYearTo, &volStatus,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperr.NewNotFound("document", id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load document: %w", err)
	}

	var volume *domain.Volume
	if volID != nil {
		volume = &domain.Volume{ID: *volID}
		if volNumber != nil {
			volume.Number = *volNumber
		}
		if volTitle != nil {
			volume.Title = *volTitle
		}
		if volYearFrom != nil {
			volume.YearFrom = *volYearFrom
		}
		if volYearTo != nil {
			volume.YearTo = *volYearTo
		}
		if volStatus != nil {
			volume.Status = *volStatus
		}
	}
	return &doc, volume, nil
}

// Content loads the raw stored content of one visible document.
func (r *Reader) Content(ctx context.Context, id int64, includeUnpublished bool) (string, error) {
	where := []string{"d.id = $1"}
	if !includeUnpublished {
		where = append(where, publishedVolumeFilter)
	}

	var content string
	err := r.db.QueryRow(ctx,
		"SELECT COALESCE(d.content, '') FROM documents d"+whereSQL(where), id,
	).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NewNotFound("document", id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load document content: %w", err)
	}
	return content, nil
}

func (r *Reader) Footnotes(ctx context.Context, id int64) ([]domain.Footnote, error) {
	rows, err := r.db.Query(ctx,
		"SELECT number, content FROM footnotes WHERE document_id = $1 ORDER BY number", id)
	if err != nil {
		return nil, fmt.Errorf("failed to load footnotes: %w", err)
	}
	defer rows.Close()

	var footnotes []domain.Footnote
	for rows.Next() {
		var fn domain.Footnote
		if err := rows.Scan(&fn.Number, &fn.Content); err != nil {
			return nil, fmt.Errorf("failed to scan footnote: %w", err)
		}
		footnotes = append(footnotes, fn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return footnotes, nil
}

func (r *Reader) DocumentTags(ctx context.Context, id int64) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, COALESCE(t.slug, ''), COALESCE(t.color, '')
		FROM document_tags dt
		JOIN tags t ON t.id = dt.tag_id
		WHERE dt.document_id = $1
		ORDER BY t.name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Color); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return tags, nil
}

// Volumes lists the volume dictionary in shelf order. Non-administrators
// only see published volumes.
func (r *Reader) Volumes(ctx context.Context, includeUnpublished bool) ([]domain.Volume, error) {
	sql := `
		SELECT id, COALESCE(number, 0), COALESCE(title, ''),
		       COALESCE(year_from, 0), COALESCE(year_to, 0), COALESCE(status, '')
		FROM volumes
	`
	if !includeUnpublished {
		sql += fmt.Sprintf(" WHERE status = '%s'", domain.VolumeStatusPublished)
	}
	sql += " ORDER BY number"

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to load volumes: %w", err)
	}
	defer rows.Close()

	var volumes []domain.Volume
	for rows.Next() {
		var v domain.Volume
		if err := rows.Scan(&v.ID, &v.Number, &v.Title, &v.YearFrom, &v.YearTo, &v.Status); err != nil {
			return nil, fmt.Errorf("failed to scan volume: %w", err)
		}
		volumes = append(volumes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return volumes, nil
}

func (r *Reader) Tags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, name, COALESCE(slug, ''), COALESCE(color, '') FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Color); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return tags, nil
}

// Stats aggregates the corpus numbers shown on the search landing surface.
func (r *Reader) Stats(ctx context.Context) (*domain.CorpusStats, error) {
	var stats domain.CorpusStats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(words_count), 0), COALESCE(SUM(LENGTH(content)), 0)
		FROM documents
	`).Scan(&stats.Documents, &stats.TotalWords, &stats.TotalChars)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus stats: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT document_type
		FROM documents
		WHERE document_type IS NOT NULL AND document_type != ''
		ORDER BY document_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load document types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dt string
		if err := rows.Scan(&dt); err != nil {
			return nil, fmt.Errorf("failed to scan document type: %w", err)
		}
		stats.DocumentTypes = append(stats.DocumentTypes, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return &stats, nil
}

// RecentViews returns the caller's view history within the quota window,
// newest first.
func (r *Reader) RecentViews(ctx context.Context, user uuid.UUID, includeUnpublished bool) ([]domain.ViewedDocument, error) {
	where := []string{
		"dv.user_id = $1",
		"dv.viewed_at > now() - interval '24 hours'",
	}
	if !includeUnpublished {
		where = append(where, publishedVolumeFilter)
	}

	sql := fmt.Sprintf(`
		SELECT d.id, COALESCE(d.title, ''), COALESCE(d.slug, ''),
		       COALESCE(d.document_type, ''), dv.viewed_at
		FROM document_views dv
		JOIN documents d ON d.id = dv.document_id%s
		ORDER BY dv.viewed_at DESC
	`, whereSQL(where))

	rows, err := r.db.Query(ctx, sql, user)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent views: %w", err)
	}
	defer rows.Close()

	var docs []domain.ViewedDocument
	for rows.Next() {
		var vd domain.ViewedDocument
		if err := rows.Scan(&vd.ID, &vd.Title, &vd.Slug, &vd.DocumentType, &vd.ViewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan viewed document: %w", err)
		}
		docs = append(docs, vd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return docs, nil
}
