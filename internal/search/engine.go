package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dzielazebrane/archiwum/internal/domain"
	"github.com/dzielazebrane/archiwum/internal/highlight"
	"github.com/dzielazebrane/archiwum/internal/storage"
)

// defaultCandidateLimit bounds each retrieval list feeding rank fusion.
const defaultCandidateLimit = 200

// Embedder turns a query string into a vector. The provider is a network
// collaborator and is allowed to fail; the engine degrades to lexical-only
// retrieval when it does.
type Embedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Page is one ranked result page.
type Page struct {
	Results []domain.RankedResult `json:"results"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	Pages   int                   `json:"pages"`
}

// Engine runs the retrieval pipeline: classify the query, fetch an embedding
// when the intent is semantic, retrieve lexically and semantically in
// parallel, fuse, then enrich and highlight the requested page.
type Engine struct {
	store          storage.Searcher
	enricher       storage.Enricher
	classifier     Classifier
	embedder       Embedder
	candidateLimit int
}

type EngineOption func(*Engine)

// WithClassifier swaps the query intent strategy.
func WithClassifier(c Classifier) EngineOption {
	return func(e *Engine) { e.classifier = c }
}

// WithEmbedder enables the semantic retrieval path.
func WithEmbedder(emb Embedder) EngineOption {
	return func(e *Engine) { e.embedder = emb }
}

// WithCandidateLimit overrides the per-list fusion candidate bound.
func WithCandidateLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.candidateLimit = n
		}
	}
}

func NewEngine(store storage.Searcher, enricher storage.Enricher, opts ...EngineOption) *Engine {
	e := &Engine{
		store:          store,
		enricher:       enricher,
		classifier:     HeuristicClassifier{},
		candidateLimit: defaultCandidateLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search executes one search call. page is 1-based; limit is the page size
// already resolved for the caller's access tier.
func (e *Engine) Search(ctx context.Context, f domain.SearchFilter, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	// A degenerate request constrains nothing; answer without touching
	// storage.
	if f.Empty() {
		return &Page{Results: []domain.RankedResult{}, Page: page, Pages: 1}, nil
	}

	if vec := e.queryEmbedding(ctx, f); vec != nil {
		return e.hybridSearch(ctx, f, vec, page, limit)
	}
	return e.lexicalSearch(ctx, f, page, limit)
}

// queryEmbedding returns a query vector when the classifier picks semantic
// intent and the embedding provider delivers. Any failure falls back to nil,
// which selects the lexical path; embedding absence is never an error.
func (e *Engine) queryEmbedding(ctx context.Context, f domain.SearchFilter) []float32 {
	if e.embedder == nil || !f.HasQuery() {
		return nil
	}
	if e.classifier.Classify(f.Query) != IntentSemantic {
		return nil
	}

	vec, err := e.embedder.EmbedQuery(ctx, f.Query)
	if err != nil {
		slog.Warn("query embedding unavailable, falling back to lexical search",
			"query", f.Query, "error", err)
		return nil
	}
	if len(vec) == 0 {
		slog.Warn("embedding provider returned an empty vector, falling back to lexical search",
			"query", f.Query)
		return nil
	}
	return vec
}

func (e *Engine) lexicalSearch(ctx context.Context, f domain.SearchFilter, page, limit int) (*Page, error) {
	total, hits, err := e.store.Search(ctx, f, page, limit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RankedResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.RankedResult{DocumentHit: hit, Score: hit.Rank}
	}
	if err := e.finishPage(ctx, f, results); err != nil {
		return nil, err
	}

	return &Page{
		Results: results,
		Total:   total,
		Page:    page,
		Pages:   pages(total, limit),
	}, nil
}

func (e *Engine) hybridSearch(ctx context.Context, f domain.SearchFilter, vec []float32, page, limit int) (*Page, error) {
	var lexIDs, semIDs []int64

	// The two retrievals are independent and read-only; run them in
	// parallel and join before fusion. Cancellation of ctx abandons both.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lexIDs, err = e.store.SearchIDs(gctx, f, e.candidateLimit)
		return err
	})
	g.Go(func() error {
		var err error
		semIDs, err = e.store.SearchSemantic(gctx, vec, f, e.candidateLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := FuseRanks(lexIDs, semIDs)
	total := int64(len(fused))

	pageItems := PageOf(fused, page, limit)
	ids := make([]int64, len(pageItems))
	for i, item := range pageItems {
		ids[i] = item.ID
	}

	hits, err := e.store.HitsByIDs(ctx, ids, f.IncludeUnpublished)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.DocumentHit, len(hits))
	for _, hit := range hits {
		byID[hit.ID] = hit
	}

	results := make([]domain.RankedResult, 0, len(pageItems))
	for _, item := range pageItems {
		hit, ok := byID[item.ID]
		if !ok {
			// dropped by the visibility predicate between retrieval and load
			continue
		}
		results = append(results, domain.RankedResult{
			DocumentHit:  hit,
			Score:        item.Score,
			LexicalRank:  item.LexicalRank,
			SemanticRank: item.SemanticRank,
		})
	}
	if err := e.finishPage(ctx, f, results); err != nil {
		return nil, err
	}

	return &Page{
		Results: results,
		Total:   total,
		Page:    page,
		Pages:   pages(total, limit),
	}, nil
}

// finishPage attaches volumes and tags to the page and renders snippets.
// Metadata is loaded in two batch calls over the page's id set.
func (e *Engine) finishPage(ctx context.Context, f domain.SearchFilter, results []domain.RankedResult) error {
	if len(results) == 0 {
		return nil
	}

	docIDs := make([]int64, len(results))
	volumeIDs := make([]int64, 0, len(results))
	seenVolumes := make(map[int64]bool)
	for i, r := range results {
		docIDs[i] = r.ID
		if r.VolumeID != nil && !seenVolumes[*r.VolumeID] {
			seenVolumes[*r.VolumeID] = true
			volumeIDs = append(volumeIDs, *r.VolumeID)
		}
	}

	volumes, err := e.enricher.VolumesByIDs(ctx, volumeIDs)
	if err != nil {
		return err
	}
	tags, err := e.enricher.TagsByDocumentIDs(ctx, docIDs)
	if err != nil {
		return err
	}

	for i := range results {
		r := &results[i]
		if r.VolumeID != nil {
			if v, ok := volumes[*r.VolumeID]; ok {
				r.Volume = &v
			}
		}
		r.Tags = tags[r.ID]
		if r.Tags == nil {
			r.Tags = []domain.Tag{}
		}
		r.Snippet = highlight.Snippet(r.Snippet, f.Query)
	}
	return nil
}

func pages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	p := int((total + int64(limit) - 1) / int64(limit))
	if p < 1 {
		p = 1
	}
	return p
}
