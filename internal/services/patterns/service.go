// Package patterns retrieves historical trade outcomes and research
// records from the local pattern store (internal RAG).
package patterns

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/models"
)

// maxSimilarTrades caps how many matched trades are echoed back in an
// analysis; the win rate and ROI still cover every match.
const maxSimilarTrades = 10

// Service implements the PatternService interface.
type Service struct {
	storage interfaces.PatternStorage
	logger  arbor.ILogger
}

// NewService creates a new pattern retrieval service.
func NewService(storage interfaces.PatternStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// AnalyzeHistoricalPerformance summarizes win rate and ROI for trades
// matching the criteria. No matches yields HasData=false, not an error.
func (s *Service) AnalyzeHistoricalPerformance(ctx context.Context, criteria models.PatternCriteria) (*models.PatternAnalysis, error) {
	if criteria.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	trades, err := s.storage.QueryTrades(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("pattern query failed for %s: %w", criteria.Symbol, err)
	}

	if len(trades) == 0 {
		return &models.PatternAnalysis{HasData: false}, nil
	}

	wins := 0
	roiSum := 0.0
	similar := make([]models.SimilarTrade, 0, maxSimilarTrades)
	for _, trade := range trades {
		if trade.Win {
			wins++
		}
		roiSum += trade.ROI

		if len(similar) < maxSimilarTrades {
			similar = append(similar, models.SimilarTrade{
				Symbol:       trade.Symbol,
				StrategyType: trade.StrategyType,
				DTE:          trade.DTE,
				Delta:        trade.Delta,
				ROI:          trade.ROI,
				Win:          trade.Win,
				ExitDate:     trade.ExitDate,
			})
		}
	}

	return &models.PatternAnalysis{
		HasData:       true,
		TradeCount:    len(trades),
		WinRate:       float64(wins) / float64(len(trades)),
		AvgROI:        roiSum / float64(len(trades)),
		SimilarTrades: similar,
	}, nil
}

// RecentActivity returns the count and average age of pattern-store
// records for a symbol within maxAgeDays.
func (s *Service) RecentActivity(ctx context.Context, symbol, queryContext string, maxAgeDays int) (*models.PatternActivity, error) {
	docs, err := s.storage.RecentDocuments(ctx, symbol, maxAgeDays)
	if err != nil {
		return nil, fmt.Errorf("recent activity query failed for %s: %w", symbol, err)
	}

	if len(docs) == 0 {
		return &models.PatternActivity{}, nil
	}

	now := time.Now()
	ageSum := 0.0
	for _, doc := range docs {
		ageSum += now.Sub(doc.CreatedAt).Hours() / 24
	}

	return &models.PatternActivity{
		Count:      len(docs),
		AvgAgeDays: ageSum / float64(len(docs)),
		Documents:  docs,
	}, nil
}

// StoreResearch persists web-research results into the pattern store so
// future queries can be served without paid calls.
func (s *Service) StoreResearch(ctx context.Context, symbol, queryContext string, results []models.ResearchResult) error {
	for _, result := range results {
		doc := &models.ResearchDocument{
			Symbol:    symbol,
			Context:   queryContext,
			Title:     result.Title,
			Content:   result.Content,
			URL:       result.URL,
			Source:    string(models.RouteTavily),
			CreatedAt: time.Now(),
		}
		if err := s.storage.SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to store research document for %s: %w", symbol, err)
		}
	}

	s.logger.Debug().Str("symbol", symbol).Int("count", len(results)).Msg("Persisted research results to pattern store")
	return nil
}

// Ensure Service implements PatternService interface
var _ interfaces.PatternService = (*Service)(nil)
