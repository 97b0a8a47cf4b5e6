// Package orchestrator fans a symbol query out to the pattern store, the
// cached external intelligence path, and web research, then merges the
// branches into one unified report.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/models"
)

// Timeouts holds the per-branch deadlines. Internal reads are local and
// fast; the intelligence path may fetch upstream; web research is slowest.
type Timeouts struct {
	Internal time.Duration
	Intel    time.Duration
	Research time.Duration
}

// DefaultTimeouts returns the production branch deadlines.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Internal: 2 * time.Second,
		Intel:    10 * time.Second,
		Research: 15 * time.Second,
	}
}

// Service implements the OrchestratorService interface.
type Service struct {
	patterns interfaces.PatternService
	cache    interfaces.CacheService
	router   interfaces.ResearchRouter
	timeouts Timeouts
	logger   arbor.ILogger
}

// NewService creates a new multi-source orchestrator.
func NewService(patterns interfaces.PatternService, cache interfaces.CacheService, router interfaces.ResearchRouter, timeouts Timeouts, logger arbor.ILogger) *Service {
	if timeouts.Internal <= 0 {
		timeouts.Internal = DefaultTimeouts().Internal
	}
	if timeouts.Intel <= 0 {
		timeouts.Intel = DefaultTimeouts().Intel
	}
	if timeouts.Research <= 0 {
		timeouts.Research = DefaultTimeouts().Research
	}
	return &Service{
		patterns: patterns,
		cache:    cache,
		router:   router,
		timeouts: timeouts,
		logger:   logger,
	}
}

// QueryMultiSource assembles a unified report for one symbol. Branch
// failures and timeouts degrade confidence; they never surface as
// request-level errors.
func (s *Service) QueryMultiSource(ctx context.Context, query models.MultiSourceQuery) (*models.MultiSourceResult, error) {
	symbol := strings.ToUpper(strings.TrimSpace(query.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	start := time.Now()
	result := &models.MultiSourceResult{
		Symbol:          symbol,
		DataSourcesUsed: []string{},
	}

	var wg sync.WaitGroup

	if query.IncludeInternalRAG {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.InternalRAG = s.queryPatterns(ctx, symbol, query)
		}()
	}

	if query.IncludeExternal {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.ExternalIntelligence = s.queryIntelligence(ctx, symbol, query.ForceRefresh)
		}()
	}

	if query.IncludeTavily {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.Tavily = s.queryResearch(ctx, symbol, query.Context)
		}()
	}

	wg.Wait()

	// Only branches that produced data count as used, reported in a fixed
	// order regardless of branch completion order.
	if result.InternalRAG.HasData {
		result.DataSourcesUsed = append(result.DataSourcesUsed, models.DataSourceInternalRAG)
	}
	if result.ExternalIntelligence.Report != nil && result.ExternalIntelligence.Report.HasData() {
		result.DataSourcesUsed = append(result.DataSourcesUsed, models.DataSourceExternal)
	}
	if result.Tavily.HasData {
		result.DataSourcesUsed = append(result.DataSourcesUsed, models.DataSourceTavily)
	}

	result.CreditsUsed = result.Tavily.CreditsUsed
	result.Aggregate = calculateAggregate(result.InternalRAG, result.ExternalIntelligence.Report)
	result.Confidence = calculateConfidence(result.InternalRAG, result.ExternalIntelligence.Report, result.Tavily)
	result.TotalFetchTimeMs = time.Since(start).Milliseconds()

	s.logger.Debug().
		Str("symbol", symbol).
		Str("confidence", string(result.Confidence)).
		Str("sentiment", string(result.Aggregate.OverallSentiment)).
		Int("quality", result.Aggregate.DataQualityScore).
		Int64("fetch_ms", result.TotalFetchTimeMs).
		Msg("Multi-source query complete")

	return result, nil
}

// BatchQueryMultiSource runs all queries concurrently and returns a lookup
// keyed by symbol. One symbol's failure never affects another's result.
func (s *Service) BatchQueryMultiSource(ctx context.Context, queries []models.MultiSourceQuery) (map[string]*models.MultiSourceResult, error) {
	results := make(map[string]*models.MultiSourceResult, len(queries))

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, query := range queries {
		wg.Add(1)
		go func(q models.MultiSourceQuery) {
			defer wg.Done()

			result, err := s.QueryMultiSource(ctx, q)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", q.Symbol).Msg("Batch query skipped symbol")
				return
			}

			mu.Lock()
			results[result.Symbol] = result
			mu.Unlock()
		}(query)
	}

	wg.Wait()
	return results, nil
}

func (s *Service) queryPatterns(ctx context.Context, symbol string, query models.MultiSourceQuery) models.PatternAnalysis {
	branchCtx, cancel := context.WithTimeout(ctx, s.timeouts.Internal)
	defer cancel()

	analysis, err := s.patterns.AnalyzeHistoricalPerformance(branchCtx, models.PatternCriteria{
		Symbol:       symbol,
		StrategyType: query.StrategyType,
		DTE:          query.DTE,
		Delta:        query.Delta,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Pattern branch failed")
		return models.PatternAnalysis{}
	}
	if analysis == nil {
		return models.PatternAnalysis{}
	}
	return *analysis
}

func (s *Service) queryIntelligence(ctx context.Context, symbol string, forceRefresh bool) models.ExternalIntelBlock {
	branchCtx, cancel := context.WithTimeout(ctx, s.timeouts.Intel)
	defer cancel()

	start := time.Now()
	report, err := s.cache.Get(branchCtx, symbol, interfaces.CacheGetOptions{ForceRefresh: forceRefresh})
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Intelligence branch failed")
		return models.ExternalIntelBlock{FetchTimeMs: elapsed}
	}
	return models.ExternalIntelBlock{Report: report, FetchTimeMs: elapsed}
}

func (s *Service) queryResearch(ctx context.Context, symbol, queryContext string) models.TavilyBlock {
	branchCtx, cancel := context.WithTimeout(ctx, s.timeouts.Research)
	defer cancel()

	routed, err := s.router.IntelligentResearch(branchCtx, symbol, queryContext, models.RouterOptions{})
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Research branch failed")
		return models.TavilyBlock{}
	}
	if routed == nil {
		return models.TavilyBlock{}
	}
	return models.TavilyBlock{
		HasData:        routed.HasData(),
		Source:         routed.Source,
		Answer:         routed.Answer,
		Results:        routed.Results,
		ResultCount:    routed.RAGResultCount + routed.TavilyResultCount,
		CreditsUsed:    routed.CreditsUsed,
		FreshnessScore: routed.FreshnessScore,
	}
}

var _ interfaces.OrchestratorService = (*Service)(nil)
