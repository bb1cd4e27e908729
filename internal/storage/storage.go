// Package storage defines the persistence interfaces of the archive. The pg
// subpackage is the single backing implementation; every query path takes the
// visibility rules through an explicit SearchFilter rather than an ambient
// filter, so the published-volume predicate stays auditable.
package storage

import (
	"context"

	"github.com/dzielazebrane/archiwum/internal/domain"
)

// Searcher executes corpus retrieval. All operations are read-only and safe
// to run concurrently.
type Searcher interface {
	// Search runs a filtered lexical full-text search and returns the total
	// match count plus one result page, ranked by text relevance when a
	// query is present and by event date otherwise.
	Search(ctx context.Context, f domain.SearchFilter, page, limit int) (int64, []domain.DocumentHit, error)

	// SearchIDs is the candidate-generator form of Search for rank fusion:
	// it returns up to limit document ids in lexical rank order.
	SearchIDs(ctx context.Context, f domain.SearchFilter, limit int) ([]int64, error)

	// SearchSemantic returns up to limit ids of documents with a non-null
	// embedding, nearest to the query vector first, restricted by every
	// filter except the free-text predicate. It is a candidate generator
	// and reports no total.
	SearchSemantic(ctx context.Context, embedding []float32, f domain.SearchFilter, limit int) ([]int64, error)

	// HitsByIDs loads search projections for the given ids, in the given
	// order, honoring the visibility predicate.
	HitsByIDs(ctx context.Context, ids []int64, includeUnpublished bool) ([]domain.DocumentHit, error)
}

// Enricher batch-loads the metadata attached to one result page. Both calls
// must be issued with the page's id set only, never per row.
type Enricher interface {
	VolumesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Volume, error)
	TagsByDocumentIDs(ctx context.Context, ids []int64) (map[int64][]domain.Tag, error)
}
