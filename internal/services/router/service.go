// Package router decides, per query, whether pattern-store data is good
// enough or whether the paid web-research fallback must run, and may
// combine both when usable data is aging.
package router

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/common"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/models"
)

// Relevance is a weighted blend of how recent and how plentiful the
// pattern-store records are.
const (
	recencyWeight = 0.7
	countWeight   = 0.3

	// countSaturation is the record count at which the count score maxes out.
	countSaturation = 10

	// freshnessDecayDays controls the exponential freshness decay.
	freshnessDecayDays = 5
)

// Options configures the router defaults applied when a query leaves its
// own options zero.
type Options struct {
	MaxRAGAgeDays      int
	RelevanceThreshold float64
	HybridAgeDays      float64
	EnableHybrid       bool
	ResearchDepth      string
	ResearchMaxResults int
}

// Service implements the ResearchRouter interface.
type Service struct {
	patterns interfaces.PatternService
	research interfaces.ResearchProvider
	logger   arbor.ILogger
	opts     Options
	stats    stats
}

// NewService creates a new query router.
func NewService(patterns interfaces.PatternService, research interfaces.ResearchProvider, opts Options, logger arbor.ILogger) *Service {
	if opts.MaxRAGAgeDays <= 0 {
		opts.MaxRAGAgeDays = 30
	}
	if opts.RelevanceThreshold <= 0 {
		opts.RelevanceThreshold = 0.6
	}
	if opts.HybridAgeDays <= 0 {
		opts.HybridAgeDays = 3
	}
	if opts.ResearchDepth == "" {
		opts.ResearchDepth = "basic"
	}
	if opts.ResearchMaxResults <= 0 {
		opts.ResearchMaxResults = 5
	}

	return &Service{
		patterns: patterns,
		research: research,
		logger:   logger,
		opts:     opts,
	}
}

// IntelligentResearch routes one query: a RAG hit when the pattern store
// is relevant enough, a hybrid when the hit is aging, and a paid fetch
// otherwise. Degraded sources yield an empty result shape, not an error.
func (s *Service) IntelligentResearch(ctx context.Context, symbol, queryContext string, opts models.RouterOptions) (*models.RoutedResearch, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	maxAge := opts.MaxRAGAgeDays
	if maxAge <= 0 {
		maxAge = s.opts.MaxRAGAgeDays
	}
	threshold := opts.RAGRelevanceThreshold
	if threshold <= 0 {
		threshold = s.opts.RelevanceThreshold
	}

	start := time.Now()

	if !opts.ForceRefresh {
		activity := s.recentActivity(ctx, symbol, queryContext, maxAge)
		relevance := relevanceScore(activity, maxAge)

		if relevance >= threshold {
			result := s.serveFromRAG(ctx, symbol, queryContext, activity, relevance, opts)
			result.ResponseTimeMs = time.Since(start).Milliseconds()
			s.stats.record(result.Source, result.CreditsUsed)
			return result, nil
		}

		s.logger.Debug().
			Str("symbol", symbol).
			Float64("relevance", relevance).
			Float64("threshold", threshold).
			Msg("RAG relevance below threshold, falling through to web research")
	}

	result := s.serveFromResearch(ctx, symbol, queryContext)
	result.ResponseTimeMs = time.Since(start).Milliseconds()
	s.stats.record(result.Source, result.CreditsUsed)
	return result, nil
}

// recentActivity reads the pattern store; failures degrade to an empty
// activity so the query falls through to web research.
func (s *Service) recentActivity(ctx context.Context, symbol, queryContext string, maxAge int) *models.PatternActivity {
	activity, err := s.patterns.RecentActivity(ctx, symbol, queryContext, maxAge)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Pattern store read failed, treating as empty")
		return &models.PatternActivity{}
	}
	return activity
}

// serveFromRAG builds a RAG (or hybrid) response. RAG data is free; the
// hybrid supplement consumes credits.
func (s *Service) serveFromRAG(ctx context.Context, symbol, queryContext string, activity *models.PatternActivity, relevance float64, opts models.RouterOptions) *models.RoutedResearch {
	result := &models.RoutedResearch{
		Source:         models.RouteRAG,
		Cached:         true,
		FreshnessScore: freshnessScore(activity.AvgAgeDays),
		RelevanceScore: relevance,
		Documents:      activity.Documents,
		RAGResultCount: activity.Count,
	}

	hybridEnabled := opts.EnableHybrid || s.opts.EnableHybrid
	if hybridEnabled && activity.AvgAgeDays > s.opts.HybridAgeDays {
		resp, err := s.research.Search(ctx, researchQuery(symbol, queryContext), interfaces.ResearchOptions{
			MaxResults:    s.opts.ResearchMaxResults,
			Depth:         s.opts.ResearchDepth,
			IncludeAnswer: true,
		})
		if err != nil {
			// Aging RAG data is still usable; serve it alone.
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Hybrid research fetch failed, serving RAG data alone")
			return result
		}

		result.Source = models.RouteHybrid
		result.Answer = resp.Answer
		result.Results = resp.Results
		result.TavilyResultCount = len(resp.Results)
		result.CreditsUsed = resp.CreditsUsed

		s.persistResults(symbol, queryContext, resp.Results)
	}

	return result
}

// serveFromResearch issues a paid fetch and persists the results back into
// the pattern store for future hits.
func (s *Service) serveFromResearch(ctx context.Context, symbol, queryContext string) *models.RoutedResearch {
	result := &models.RoutedResearch{
		Source:         models.RouteTavily,
		FreshnessScore: 1.0,
	}

	resp, err := s.research.Search(ctx, researchQuery(symbol, queryContext), interfaces.ResearchOptions{
		MaxResults:    s.opts.ResearchMaxResults,
		Depth:         s.opts.ResearchDepth,
		IncludeAnswer: true,
	})
	if err != nil {
		// Absence of data is represented in-band; the caller degrades
		// confidence instead of failing.
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Web research failed, returning empty result")
		return result
	}

	result.Answer = resp.Answer
	result.Results = resp.Results
	result.TavilyResultCount = len(resp.Results)
	result.CreditsUsed = resp.CreditsUsed

	s.persistResults(symbol, queryContext, resp.Results)

	return result
}

// persistResults writes research results back into the pattern store.
// Fire-and-forget: a write failure is logged, never propagated.
func (s *Service) persistResults(symbol, queryContext string, results []models.ResearchResult) {
	if len(results) == 0 {
		return
	}

	common.SafeGo(s.logger, "persistResearchResults", func() {
		if err := s.patterns.StoreResearch(context.Background(), symbol, queryContext, results); err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to persist research results to pattern store")
		}
	})
}

// Stats returns an immutable snapshot of the routing counters.
func (s *Service) Stats() models.RouterStatsSnapshot {
	return s.stats.snapshot()
}

// ResetStats zeroes all counters.
func (s *Service) ResetStats() {
	s.stats.reset()
}

// relevanceScore blends recency and record count:
// 0.7*max(0, 1-avgAge/maxAge) + 0.3*min(1, count/10).
func relevanceScore(activity *models.PatternActivity, maxAgeDays int) float64 {
	if activity.Count == 0 {
		return 0
	}

	recency := 1 - activity.AvgAgeDays/float64(maxAgeDays)
	if recency < 0 {
		recency = 0
	}

	countScore := float64(activity.Count) / countSaturation
	if countScore > 1 {
		countScore = 1
	}

	return recencyWeight*recency + countWeight*countScore
}

// freshnessScore decays exponentially with age: exp(-age/5).
func freshnessScore(ageDays float64) float64 {
	return math.Exp(-ageDays / freshnessDecayDays)
}

func researchQuery(symbol, queryContext string) string {
	if queryContext == "" {
		return fmt.Sprintf("%s stock options trading outlook", symbol)
	}
	return fmt.Sprintf("%s %s", symbol, queryContext)
}

// Ensure Service implements ResearchRouter interface
var _ interfaces.ResearchRouter = (*Service)(nil)
