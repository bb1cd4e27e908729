package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzielazebrane/archiwum/internal/domain"
)

type stubStore struct {
	searchTotal int64
	searchHits  []domain.DocumentHit
	lexIDs      []int64
	semIDs      []int64
	hits        map[int64]domain.DocumentHit

	searchCalls   int
	semanticCalls int
}

func (s *stubStore) Search(ctx context.Context, f domain.SearchFilter, page, limit int) (int64, []domain.DocumentHit, error) {
	s.searchCalls++
	return s.searchTotal, s.searchHits, nil
}

func (s *stubStore) SearchIDs(ctx context.Context, f domain.SearchFilter, limit int) ([]int64, error) {
	return s.lexIDs, nil
}

func (s *stubStore) SearchSemantic(ctx context.Context, embedding []float32, f domain.SearchFilter, limit int) ([]int64, error) {
	s.semanticCalls++
	return s.semIDs, nil
}

func (s *stubStore) HitsByIDs(ctx context.Context, ids []int64, includeUnpublished bool) ([]domain.DocumentHit, error) {
	var hits []domain.DocumentHit
	for _, id := range ids {
		if hit, ok := s.hits[id]; ok {
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

type stubEnricher struct{}

func (stubEnricher) VolumesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Volume, error) {
	return map[int64]domain.Volume{}, nil
}

func (stubEnricher) TagsByDocumentIDs(ctx context.Context, ids []int64) (map[int64][]domain.Tag, error) {
	return map[int64][]domain.Tag{}, nil
}

type stubEmbedder struct {
	vec []float32
	err error
}

func (s stubEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return s.vec, s.err
}

type semanticAlways struct{}

func (semanticAlways) Classify(string) Intent { return IntentSemantic }

func hitsByID(ids ...int64) map[int64]domain.DocumentHit {
	m := make(map[int64]domain.DocumentHit, len(ids))
	for _, id := range ids {
		m[id] = domain.DocumentHit{ID: id, Title: "doc"}
	}
	return m
}

func TestEngineEmptyFilter(t *testing.T) {
	e := NewEngine(&stubStore{}, stubEnricher{})

	page, err := e.Search(context.Background(), domain.SearchFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Zero(t, page.Total)
	assert.Equal(t, 1, page.Pages)
}

func TestEngineLexicalPath(t *testing.T) {
	store := &stubStore{
		searchTotal: 21,
		searchHits: []domain.DocumentHit{
			{ID: 1, Title: "Kazanie", Snippet: "o miłosierdziu i nadziei", Rank: 0.9},
		},
	}
	e := NewEngine(store, stubEnricher{})

	page, err := e.Search(context.Background(), domain.SearchFilter{Query: "miłosierdziu"}, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 0.9, page.Results[0].Score)
	assert.Zero(t, page.Results[0].LexicalRank)
	assert.Contains(t, page.Results[0].Snippet, "<mark")
	assert.NotNil(t, page.Results[0].Tags)
	assert.Equal(t, 0, store.semanticCalls)
}

func TestEngineHybridPath(t *testing.T) {
	store := &stubStore{
		lexIDs: []int64{1, 2},
		semIDs: []int64{2, 3},
		hits:   hitsByID(1, 2, 3),
	}
	e := NewEngine(store, stubEnricher{},
		WithClassifier(semanticAlways{}),
		WithEmbedder(stubEmbedder{vec: []float32{0.1, 0.2}}),
	)

	page, err := e.Search(context.Background(), domain.SearchFilter{Query: "co pisał prymas"}, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Results, 3)
	// Document 2 is in both lists and must lead the fused page.
	assert.Equal(t, int64(2), page.Results[0].ID)
	assert.Equal(t, 2, page.Results[0].LexicalRank)
	assert.Equal(t, 1, page.Results[0].SemanticRank)
	assert.Equal(t, 1, store.semanticCalls)
	assert.Equal(t, 0, store.searchCalls)
}

func TestEngineHybridDropsHiddenDocuments(t *testing.T) {
	// id 3 fused but no longer loadable: it must vanish from the page
	// while the fused total still counts it.
	store := &stubStore{
		lexIDs: []int64{1, 3},
		semIDs: []int64{1},
		hits:   hitsByID(1),
	}
	e := NewEngine(store, stubEnricher{},
		WithClassifier(semanticAlways{}),
		WithEmbedder(stubEmbedder{vec: []float32{0.5}}),
	)

	page, err := e.Search(context.Background(), domain.SearchFilter{Query: "jak żyć po wojnie"}, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, int64(1), page.Results[0].ID)
}

func TestEngineEmbeddingFailureFallsBackToLexical(t *testing.T) {
	store := &stubStore{searchTotal: 1, searchHits: []domain.DocumentHit{{ID: 1}}}
	e := NewEngine(store, stubEnricher{},
		WithClassifier(semanticAlways{}),
		WithEmbedder(stubEmbedder{err: errors.New("connection refused")}),
	)

	page, err := e.Search(context.Background(), domain.SearchFilter{Query: "co pisał prymas o narodzie"}, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, store.searchCalls)
	assert.Equal(t, 0, store.semanticCalls)
}

func TestEngineEmptyVectorFallsBackToLexical(t *testing.T) {
	store := &stubStore{}
	e := NewEngine(store, stubEnricher{},
		WithClassifier(semanticAlways{}),
		WithEmbedder(stubEmbedder{vec: []float32{}}),
	)

	_, err := e.Search(context.Background(), domain.SearchFilter{Query: "o czym mówił"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, store.searchCalls)
	assert.Equal(t, 0, store.semanticCalls)
}

func TestEngineLexicalIntentSkipsEmbedder(t *testing.T) {
	store := &stubStore{}
	e := NewEngine(store, stubEnricher{},
		WithEmbedder(stubEmbedder{vec: []float32{1}}),
	)

	// Two words classify as lexical, so the embedder must stay cold.
	_, err := e.Search(context.Background(), domain.SearchFilter{Query: "list pasterski"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, store.searchCalls)
	assert.Equal(t, 0, store.semanticCalls)
}
