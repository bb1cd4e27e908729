package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/dzielazebrane/archiwum/internal/domain"
	"github.com/dzielazebrane/archiwum/internal/storage"
)

// defaultLanguage is the text search configuration of the corpus.
const defaultLanguage = "polish"

// hitColumns is the search projection of a document. Text columns are
// coalesced so nullable rows scan cleanly; the snippet is cut from the
// start of the content before any display processing.
const hitColumns = `d.id, COALESCE(d.title, ''), COALESCE(d.subtitle, ''), COALESCE(d.location, ''),
	d.event_date, COALESCE(d.document_type, ''), COALESCE(d.addressee, ''),
	COALESCE(d.words_count, 0), COALESCE(d.slug, ''), d.volume_id,
	LEFT(COALESCE(d.content, ''), 250) AS snippet`

type Searcher struct {
	db       *pgxpool.Pool
	language string
}

type SearcherOption func(*Searcher)

// WithLanguage overrides the text search configuration, e.g. for tests
// running against a plain dictionary.
func WithLanguage(lang string) SearcherOption {
	return func(s *Searcher) {
		if lang != "" {
			s.language = lang
		}
	}
}

func NewSearcher(pool *ConnectionPool, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		db:       pool.GetConn(),
		language: defaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs a filtered lexical full-text search with websearch semantics:
// bare terms AND'd, quoted phrases exact, minus-prefixed terms excluded, OR
// as disjunction. Results rank by text relevance when a query is present and
// by event date otherwise, with event date as tiebreak and nulls last.
func (s *Searcher) Search(ctx context.Context, f domain.SearchFilter, page, limit int) (int64, []domain.DocumentHit, error) {
	where, args := s.filterClauses(f, true, nil)
	w := whereSQL(where)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM documents d"+w, args...).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("failed to count documents: %w", err)
	}
	if total == 0 {
		return 0, nil, nil
	}

	rankExpr := "0::float8"
	orderBy := "d.event_date DESC NULLS LAST"
	if f.HasQuery() {
		// query text is $1, see filterClauses
		rankExpr = fmt.Sprintf("ts_rank(d.search_vector, websearch_to_tsquery('%s', $1))", s.language)
		orderBy = "rank DESC, d.event_date DESC NULLS LAST"
	}

	args = append(args, limit, (page-1)*limit)
	searchSQL := fmt.Sprintf(`
		SELECT %s, %s AS rank
		FROM documents d%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, hitColumns, rankExpr, w, orderBy, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, searchSQL, args...)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	hits, err := scanHits(rows)
	if err != nil {
		return 0, nil, err
	}

	slog.Debug("lexical search executed", "total", total, "page_hits", len(hits), "has_query", f.HasQuery())
	return total, hits, nil
}

// SearchIDs is the candidate-generator form of Search used for fusion: ids
// only, rank order, bounded by limit.
func (s *Searcher) SearchIDs(ctx context.Context, f domain.SearchFilter, limit int) ([]int64, error) {
	where, args := s.filterClauses(f, true, nil)

	orderBy := "d.event_date DESC NULLS LAST"
	if f.HasQuery() {
		orderBy = fmt.Sprintf("ts_rank(d.search_vector, websearch_to_tsquery('%s', $1)) DESC, d.event_date DESC NULLS LAST", s.language)
	}

	args = append(args, limit)
	sql := fmt.Sprintf(`
		SELECT d.id
		FROM documents d%s
		ORDER BY %s
		LIMIT $%d
	`, whereSQL(where), orderBy, len(args))

	return s.queryIDs(ctx, sql, args)
}

// SearchSemantic returns the ids of embedded documents nearest to the query
// vector, nearest first. The free-text predicate is deliberately not
// applied; every other filter is.
func (s *Searcher) SearchSemantic(ctx context.Context, embedding []float32, f domain.SearchFilter, limit int) ([]int64, error) {
	where, args := s.filterClauses(f, false, nil)
	where = append(where, "d.embedding IS NOT NULL")

	args = append(args, pgvector.NewVector(embedding))
	vecParam := len(args)
	args = append(args, limit)

	sql := fmt.Sprintf(`
		SELECT d.id
		FROM documents d%s
		ORDER BY d.embedding <=> $%d
		LIMIT $%d
	`, whereSQL(where), vecParam, len(args))

	return s.queryIDs(ctx, sql, args)
}

// HitsByIDs loads the search projections for a fused page, preserving the
// order of ids. Documents hidden by the visibility predicate are dropped.
func (s *Searcher) HitsByIDs(ctx context.Context, ids []int64, includeUnpublished bool) ([]domain.DocumentHit, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	where := []string{"d.id = ANY($1)"}
	if !includeUnpublished {
		where = append(where, publishedVolumeFilter)
	}

	sql := fmt.Sprintf(`
		SELECT %s, 0::float8 AS rank
		FROM documents d%s
	`, hitColumns, whereSQL(where))

	rows, err := s.db.Query(ctx, sql, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents by id: %w", err)
	}
	defer rows.Close()

	hits, err := scanHits(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.DocumentHit, len(hits))
	for _, hit := range hits {
		byID[hit.ID] = hit
	}
	ordered := make([]domain.DocumentHit, 0, len(hits))
	for _, id := range ids {
		if hit, ok := byID[id]; ok {
			ordered = append(ordered, hit)
		}
	}
	return ordered, nil
}

func (s *Searcher) queryIDs(ctx context.Context, sql string, args []any) ([]int64, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute id query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return ids, nil
}

func scanHits(rows pgx.Rows) ([]domain.DocumentHit, error) {
	var hits []domain.DocumentHit
	for rows.Next() {
		var hit domain.DocumentHit
		if err := rows.Scan(
			&hit.ID,
			&hit.Title,
			&hit.Subtitle,
			&hit.Location,
			&hit.EventDate,
			&hit.DocumentType,
			&hit.Addressee,
			&hit.WordsCount,
			&hit.Slug,
			&hit.VolumeID,
			&hit.Snippet,
			&hit.Rank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return hits, nil
}

var _ storage.Searcher = (*Searcher)(nil)
