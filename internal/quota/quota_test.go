package quota

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzielazebrane/archiwum/internal/domain"
)

// fakeStore mimics the ledger semantics in memory: distinct documents per
// user, idempotent re-views, no write on denial.
type fakeStore struct {
	views map[uuid.UUID]map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{views: make(map[uuid.UUID]map[int64]bool)}
}

func (s *fakeStore) DistinctViews(ctx context.Context, user uuid.UUID) (int, error) {
	return len(s.views[user]), nil
}

func (s *fakeStore) HasViewed(ctx context.Context, user uuid.UUID, doc int64) (bool, error) {
	return s.views[user][doc], nil
}

func (s *fakeStore) ViewedDocumentIDs(ctx context.Context, user uuid.UUID) (map[int64]bool, error) {
	out := make(map[int64]bool, len(s.views[user]))
	for id := range s.views[user] {
		out[id] = true
	}
	return out, nil
}

func (s *fakeStore) TryRecordView(ctx context.Context, user uuid.UUID, doc int64) (Decision, error) {
	used := len(s.views[user])
	if s.views[user][doc] {
		return Decision{Allowed: true, AlreadyViewed: true, Remaining: ViewLimit - used}, nil
	}
	if used >= ViewLimit {
		return Decision{Allowed: false, Remaining: 0}, nil
	}
	if s.views[user] == nil {
		s.views[user] = make(map[int64]bool)
	}
	s.views[user][doc] = true
	return Decision{Allowed: true, Remaining: ViewLimit - used - 1}, nil
}

func TestGateGuestAlwaysDenied(t *testing.T) {
	gate := NewGate(newFakeStore())

	d, err := gate.Open(context.Background(), uuid.Nil, domain.AccessGuest, 1)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, d.Remaining)
}

func TestGateUnlimitedTiersBypassLedger(t *testing.T) {
	store := newFakeStore()
	gate := NewGate(store)
	user := uuid.New()

	for _, level := range []domain.AccessLevel{domain.AccessDonator, domain.AccessVIP} {
		for doc := int64(1); doc <= 10; doc++ {
			d, err := gate.Open(context.Background(), user, level, doc)
			require.NoError(t, err)
			assert.True(t, d.Allowed)
			assert.Equal(t, Unlimited, d.Remaining)
		}
	}
	// The ledger never saw a write.
	assert.Empty(t, store.views[user])
}

func TestGateUserTierConsumesQuota(t *testing.T) {
	gate := NewGate(newFakeStore())
	user := uuid.New()

	for doc := int64(1); doc <= ViewLimit; doc++ {
		d, err := gate.Open(context.Background(), user, domain.AccessUser, doc)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, ViewLimit-int(doc), d.Remaining)
	}

	d, err := gate.Open(context.Background(), user, domain.AccessUser, 99)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, d.Remaining)
}

func TestGateReviewIsIdempotent(t *testing.T) {
	store := newFakeStore()
	gate := NewGate(store)
	user := uuid.New()

	first, err := gate.Open(context.Background(), user, domain.AccessUser, 7)
	require.NoError(t, err)
	require.True(t, first.Allowed)

	again, err := gate.Open(context.Background(), user, domain.AccessUser, 7)
	require.NoError(t, err)
	assert.True(t, again.Allowed)
	assert.True(t, again.AlreadyViewed)
	assert.Equal(t, first.Remaining, again.Remaining)

	used, err := store.DistinctViews(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 1, used)
}

func TestGateReviewAllowedAfterExhaustion(t *testing.T) {
	gate := NewGate(newFakeStore())
	user := uuid.New()

	for doc := int64(1); doc <= ViewLimit; doc++ {
		_, err := gate.Open(context.Background(), user, domain.AccessUser, doc)
		require.NoError(t, err)
	}

	d, err := gate.Open(context.Background(), user, domain.AccessUser, 1)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.True(t, d.AlreadyViewed)
}

func TestGateRemainingFloorsAtZero(t *testing.T) {
	store := newFakeStore()
	user := uuid.New()
	store.views[user] = map[int64]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}

	gate := NewGate(store)
	remaining, err := gate.Remaining(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestGateViewedDocumentIDs(t *testing.T) {
	store := newFakeStore()
	gate := NewGate(store)
	user := uuid.New()

	_, err := gate.Open(context.Background(), user, domain.AccessUser, 3)
	require.NoError(t, err)

	seen, err := gate.ViewedDocumentIDs(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{3: true}, seen)
}
