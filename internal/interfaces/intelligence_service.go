package interfaces

import (
	"context"

	"github.com/ternarybob/optionsintel/internal/models"
)

// IntelligenceOptions controls what an intelligence fetch includes.
// Zero limits fall back to the service defaults.
type IntelligenceOptions struct {
	IncludeEarnings     bool
	IncludeNews         bool
	MaxEarningsQuarters int
	MaxNewsArticles     int
	NewsMaxAgeDays      int
}

// IntelligenceService assembles earnings and news sub-reports for a symbol
// from the market-intelligence store. Sub-fetches run in parallel and fail
// independently; an error or empty result in one never cancels the other.
type IntelligenceService interface {
	// GetIntelligence builds a fresh report. Missing data degrades the
	// report's confidence instead of raising an error.
	GetIntelligence(ctx context.Context, symbol string, opts IntelligenceOptions) (*models.IntelligenceReport, error)
}
