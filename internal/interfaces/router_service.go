package interfaces

import (
	"context"

	"github.com/ternarybob/optionsintel/internal/models"
)

// ResearchRouter decides, per query, whether pattern-store data is good
// enough or whether the paid web-research fallback must run, and may
// combine both ("hybrid") when usable data is aging.
type ResearchRouter interface {
	// IntelligentResearch routes one query. Degraded sources yield an
	// empty result shape, not an error.
	IntelligentResearch(ctx context.Context, symbol, queryContext string, opts models.RouterOptions) (*models.RoutedResearch, error)

	// Stats returns an immutable snapshot of the routing counters.
	Stats() models.RouterStatsSnapshot

	// ResetStats zeroes all counters.
	ResetStats()
}
