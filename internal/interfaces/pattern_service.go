package interfaces

import (
	"context"

	"github.com/ternarybob/optionsintel/internal/models"
)

// PatternService retrieves historical trade outcomes and research records
// from the local pattern store (internal RAG).
type PatternService interface {
	// AnalyzeHistoricalPerformance summarizes win rate and ROI for trades
	// matching the criteria. No matches yields HasData=false, not an error.
	AnalyzeHistoricalPerformance(ctx context.Context, criteria models.PatternCriteria) (*models.PatternAnalysis, error)

	// RecentActivity returns the count and average age of pattern-store
	// records for a symbol within maxAgeDays, feeding the router's
	// relevance scoring.
	RecentActivity(ctx context.Context, symbol, queryContext string, maxAgeDays int) (*models.PatternActivity, error)

	// StoreResearch persists web-research results into the pattern store
	// so future queries can be served without paid calls.
	StoreResearch(ctx context.Context, symbol, queryContext string, results []models.ResearchResult) error
}
