package interfaces

import (
	"context"

	"github.com/ternarybob/optionsintel/internal/models"
)

// CacheGetOptions controls a single cache service call.
type CacheGetOptions struct {
	// ForceRefresh bypasses live cache rows and fetches fresh data.
	ForceRefresh bool
}

// CacheService sits between the orchestrator and the external intelligence
// service, transparently caching earnings (long TTL) and news (short TTL)
// snapshots and reporting hit/miss statistics.
type CacheService interface {
	// Get returns the intelligence report for a symbol, served from live
	// cache rows when possible, otherwise fetched fresh and written
	// through. Degraded upstream conditions yield a lower-confidence
	// report, not an error.
	Get(ctx context.Context, symbol string, opts CacheGetOptions) (*models.IntelligenceReport, error)

	// Stats returns a snapshot of the running hit/miss aggregates.
	Stats(ctx context.Context) models.CacheStats

	// Cleanup deletes all expired rows and returns the count removed.
	Cleanup(ctx context.Context) (int, error)

	// Invalidate deletes all rows for a symbol regardless of TTL. Used
	// when a caller knows the data is stale, e.g. after a price shock.
	Invalidate(ctx context.Context, symbol string) error
}
