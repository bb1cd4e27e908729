package pg

import (
	"context"
)

// HealthChecker answers the liveness probe with a pool ping. The archive is
// read-mostly, so a reachable database is the only dependency worth probing.
type HealthChecker struct {
	pool *ConnectionPool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{
		pool: pool,
	}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	err := hc.pool.Ping(ctx)
	if err != nil {
		return false
	}

	return true
}
