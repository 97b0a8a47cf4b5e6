package router

import (
	"sync/atomic"

	"github.com/ternarybob/optionsintel/internal/models"
)

// stats holds the router's process-wide counters. Increments are atomic;
// callers only ever see immutable snapshots.
type stats struct {
	totalQueries  atomic.Int64
	ragHits       atomic.Int64
	tavilyFetches atomic.Int64
	hybridQueries atomic.Int64
	totalCredits  atomic.Int64
}

// record tallies one completed query.
func (s *stats) record(source models.RouteSource, credits int) {
	s.totalQueries.Add(1)
	s.totalCredits.Add(int64(credits))

	switch source {
	case models.RouteRAG:
		s.ragHits.Add(1)
	case models.RouteTavily:
		s.tavilyFetches.Add(1)
	case models.RouteHybrid:
		// A hybrid response is both a RAG hit and a paid fetch.
		s.ragHits.Add(1)
		s.tavilyFetches.Add(1)
		s.hybridQueries.Add(1)
	}
}

// snapshot derives the rate counters from the raw totals.
func (s *stats) snapshot() models.RouterStatsSnapshot {
	snap := models.RouterStatsSnapshot{
		TotalQueries:     s.totalQueries.Load(),
		RAGHits:          s.ragHits.Load(),
		TavilyFetches:    s.tavilyFetches.Load(),
		HybridQueries:    s.hybridQueries.Load(),
		TotalCreditsUsed: s.totalCredits.Load(),
	}
	if snap.TotalQueries > 0 {
		snap.CacheHitRate = float64(snap.RAGHits) / float64(snap.TotalQueries)
		snap.AvgCreditsPerQuery = float64(snap.TotalCreditsUsed) / float64(snap.TotalQueries)
	}
	return snap
}

// reset zeroes all counters.
func (s *stats) reset() {
	s.totalQueries.Store(0)
	s.ragHits.Store(0)
	s.tavilyFetches.Store(0)
	s.hybridQueries.Store(0)
	s.totalCredits.Store(0)
}
