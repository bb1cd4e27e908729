package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dzielazebrane/archiwum/internal/quota"
)

// windowPredicate bounds queries to the rolling quota window. The window
// slides with every evaluation, it is not a calendar day.
const windowPredicate = "viewed_at > now() - interval '24 hours'"

// Ledger records document views and answers quota questions. It implements
// quota.Store on top of the document_views table.
type Ledger struct {
	db *pgxpool.Pool
}

func NewLedger(pool *ConnectionPool) *Ledger {
	return &Ledger{db: pool.GetConn()}
}

func (l *Ledger) DistinctViews(ctx context.Context, user uuid.UUID) (int, error) {
	var count int
	err := l.db.QueryRow(ctx,
		"SELECT COUNT(DISTINCT document_id) FROM document_views WHERE user_id = $1 AND "+windowPredicate,
		user,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count views: %w", err)
	}
	return count, nil
}

func (l *Ledger) HasViewed(ctx context.Context, user uuid.UUID, document int64) (bool, error) {
	var seen bool
	err := l.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM document_views WHERE user_id = $1 AND document_id = $2 AND "+windowPredicate+")",
		user, document,
	).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("failed to check view: %w", err)
	}
	return seen, nil
}

func (l *Ledger) ViewedDocumentIDs(ctx context.Context, user uuid.UUID) (map[int64]bool, error) {
	rows, err := l.db.Query(ctx,
		"SELECT DISTINCT document_id FROM document_views WHERE user_id = $1 AND "+windowPredicate,
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewed ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan viewed id: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return ids, nil
}

// TryRecordView decides and records a view in one transaction. A per-user
// advisory lock serializes concurrent requests so two views of distinct
// documents cannot both slip under the limit.
func (l *Ledger) TryRecordView(ctx context.Context, user uuid.UUID, document int64) (quota.Decision, error) {
	var decision quota.Decision

	err := pgx.BeginFunc(ctx, l.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", user.String(),
		); err != nil {
			return fmt.Errorf("failed to take user lock: %w", err)
		}

		var seen bool
		err := tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM document_views WHERE user_id = $1 AND document_id = $2 AND "+windowPredicate+")",
			user, document,
		).Scan(&seen)
		if err != nil {
			return fmt.Errorf("failed to check view: %w", err)
		}

		var used int
		err = tx.QueryRow(ctx,
			"SELECT COUNT(DISTINCT document_id) FROM document_views WHERE user_id = $1 AND "+windowPredicate,
			user,
		).Scan(&used)
		if err != nil {
			return fmt.Errorf("failed to count views: %w", err)
		}

		if seen {
			// Re-viewing within the window never consumes quota. The window
			// can hold more rows than the limit allows, so floor at zero.
			remaining := quota.ViewLimit - used
			if remaining < 0 {
				remaining = 0
			}
			decision = quota.Decision{Allowed: true, AlreadyViewed: true, Remaining: remaining}
			return nil
		}
		if used >= quota.ViewLimit {
			decision = quota.Decision{Allowed: false, Remaining: 0}
			return nil
		}

		if _, err := tx.Exec(ctx,
			"INSERT INTO document_views (user_id, document_id, viewed_at) VALUES ($1, $2, now())",
			user, document,
		); err != nil {
			return fmt.Errorf("failed to record view: %w", err)
		}
		decision = quota.Decision{Allowed: true, Remaining: quota.ViewLimit - used - 1}
		return nil
	})
	if err != nil {
		return quota.Decision{}, err
	}
	return decision, nil
}

// ResetViews clears a user's window entries, reopening their quota. Used by
// the admin surface.
func (l *Ledger) ResetViews(ctx context.Context, user uuid.UUID) (int64, error) {
	tag, err := l.db.Exec(ctx,
		"DELETE FROM document_views WHERE user_id = $1 AND "+windowPredicate, user)
	if err != nil {
		return 0, fmt.Errorf("failed to reset views: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ quota.Store = (*Ledger)(nil)
