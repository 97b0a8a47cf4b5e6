package interfaces

import (
	"context"

	"github.com/ternarybob/optionsintel/internal/models"
)

// ResearchOptions tunes a single web-research call.
type ResearchOptions struct {
	// MaxResults caps how many results the provider returns.
	MaxResults int

	// Depth selects the provider's search depth ("basic" or "advanced").
	// Advanced searches cost more credits.
	Depth string

	// IncludeAnswer asks the provider for a synthesized answer string.
	IncludeAnswer bool
}

// ResearchProvider is the paid, rate-limited web-research fallback. Each
// call reports the credit cost it incurred.
type ResearchProvider interface {
	// Search runs one paid query against the provider.
	Search(ctx context.Context, query string, opts ResearchOptions) (*models.ResearchResponse, error)
}
