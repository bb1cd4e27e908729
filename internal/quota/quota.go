// Package quota gates document content access by access tier with a rolling
// per-user view window.
package quota

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dzielazebrane/archiwum/internal/domain"
)

const (
	// ViewLimit is how many distinct documents a user-tier account may open
	// within one rolling window.
	ViewLimit = 5

	// Window is the accounting window, measured backwards from now rather
	// than aligned to a calendar day.
	Window = 24 * time.Hour
)

// Unlimited marks a tier without view accounting.
const Unlimited = -1

// Decision is the outcome of one document-open attempt. A denial is a
// regular outcome, not an error; Remaining lets the caller explain it.
type Decision struct {
	Allowed       bool `json:"allowed"`
	AlreadyViewed bool `json:"already_viewed"`
	Remaining     int  `json:"remaining"`
}

// Store is the persistent view ledger. All window queries measure from the
// current instant backwards.
type Store interface {
	// DistinctViews counts distinct documents the user opened within the
	// window.
	DistinctViews(ctx context.Context, user uuid.UUID) (int, error)

	// HasViewed reports whether the user opened the document within the
	// window.
	HasViewed(ctx context.Context, user uuid.UUID, doc int64) (bool, error)

	// ViewedDocumentIDs returns the ids of documents the user opened within
	// the window.
	ViewedDocumentIDs(ctx context.Context, user uuid.UUID) (map[int64]bool, error)

	// TryRecordView checks the window quota and records the view as one
	// atomic unit. Implementations must serialize concurrent calls for the
	// same user so that two parallel opens of different new documents
	// cannot jointly exceed the limit. A re-view within the window is
	// permitted and never recorded again; a denied attempt writes nothing.
	TryRecordView(ctx context.Context, user uuid.UUID, doc int64) (Decision, error)
}

// Gate applies the tier rules on top of the ledger.
type Gate struct {
	store Store
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// Open decides one document-open attempt for the given tier. Guests are
// always denied; donator and vip tiers are unlimited and never touch the
// ledger; the user tier goes through the transactional check-and-record.
func (g *Gate) Open(ctx context.Context, user uuid.UUID, level domain.AccessLevel, doc int64) (Decision, error) {
	switch {
	case level == domain.AccessGuest:
		return Decision{Allowed: false, Remaining: 0}, nil
	case level.UnlimitedViews():
		return Decision{Allowed: true, Remaining: Unlimited}, nil
	}
	return g.store.TryRecordView(ctx, user, doc)
}

// Remaining is the user-tier view budget left in the window, floored at 0.
func (g *Gate) Remaining(ctx context.Context, user uuid.UUID) (int, error) {
	used, err := g.store.DistinctViews(ctx, user)
	if err != nil {
		return 0, err
	}
	remaining := ViewLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// HasViewed reports whether the user opened the document within the window.
func (g *Gate) HasViewed(ctx context.Context, user uuid.UUID, doc int64) (bool, error) {
	return g.store.HasViewed(ctx, user, doc)
}

// ViewedDocumentIDs lists the documents the user opened within the window.
func (g *Gate) ViewedDocumentIDs(ctx context.Context, user uuid.UUID) (map[int64]bool, error) {
	return g.store.ViewedDocumentIDs(ctx, user)
}
