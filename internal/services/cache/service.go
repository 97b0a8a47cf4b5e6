// Package cache sits between the orchestrator and the external
// intelligence service, transparently caching earnings (long TTL) and news
// (short TTL) snapshots and reporting hit/miss statistics.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/common"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/models"
)

// Service implements the CacheService interface.
type Service struct {
	storage      interfaces.CacheStorage
	intelligence interfaces.IntelligenceService
	logger       arbor.ILogger

	maxEarningsQuarters int
	maxNewsArticles     int
	newsMaxAgeDays      int

	// Running aggregates, updated after every call.
	hits         atomic.Int64
	misses       atomic.Int64
	totalCalls   atomic.Int64
	totalFetchMs atomic.Int64
}

// Options configures fetch limits used on cache misses.
type Options struct {
	MaxEarningsQuarters int
	MaxNewsArticles     int
	NewsMaxAgeDays      int
}

// NewService creates a new cache service.
func NewService(storage interfaces.CacheStorage, intelligence interfaces.IntelligenceService, opts Options, logger arbor.ILogger) *Service {
	if opts.MaxEarningsQuarters <= 0 {
		opts.MaxEarningsQuarters = 4
	}
	if opts.MaxNewsArticles <= 0 {
		opts.MaxNewsArticles = 20
	}
	if opts.NewsMaxAgeDays <= 0 {
		opts.NewsMaxAgeDays = 30
	}

	return &Service{
		storage:             storage,
		intelligence:        intelligence,
		logger:              logger,
		maxEarningsQuarters: opts.MaxEarningsQuarters,
		maxNewsArticles:     opts.MaxNewsArticles,
		newsMaxAgeDays:      opts.NewsMaxAgeDays,
	}
}

// Get returns the intelligence report for a symbol. Live cache rows are
// reconstructed directly; otherwise the external intelligence service is
// called fresh and the result written through with source-specific TTLs.
func (s *Service) Get(ctx context.Context, symbol string, opts interfaces.CacheGetOptions) (*models.IntelligenceReport, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	start := time.Now()
	defer func() {
		s.totalCalls.Add(1)
		s.totalFetchMs.Add(time.Since(start).Milliseconds())
	}()

	if !opts.ForceRefresh {
		if report, ok := s.fromCache(ctx, symbol); ok {
			s.hits.Add(1)
			s.trackAccess(symbol, report)
			return report, nil
		}
	}

	s.misses.Add(1)

	report, err := s.intelligence.GetIntelligence(ctx, symbol, interfaces.IntelligenceOptions{
		IncludeEarnings:     true,
		IncludeNews:         true,
		MaxEarningsQuarters: s.maxEarningsQuarters,
		MaxNewsArticles:     s.maxNewsArticles,
		NewsMaxAgeDays:      s.newsMaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("intelligence fetch failed for %s: %w", symbol, err)
	}

	// Write-through is asynchronous; a cache-write failure must never cost
	// the caller their freshly fetched data.
	common.SafeGo(s.logger, "cacheWriteThrough", func() {
		s.writeThrough(context.Background(), report)
	})

	return report, nil
}

// fromCache reconstructs a report from live cache rows. Returns false when
// no source kind has a live row.
func (s *Service) fromCache(ctx context.Context, symbol string) (*models.IntelligenceReport, bool) {
	earningsEntry := s.liveEntry(ctx, symbol, models.SourceEarningsTranscript)
	newsEntry := s.liveEntry(ctx, symbol, models.SourceMarketNews)

	if earningsEntry == nil && newsEntry == nil {
		return nil, false
	}

	report := &models.IntelligenceReport{
		Symbol:           symbol,
		SourcesAvailable: []string{},
	}

	var newest time.Time
	if earningsEntry != nil {
		var earnings models.EarningsIntelligence
		if err := json.Unmarshal(earningsEntry.Data, &earnings); err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Corrupt earnings cache payload, treating as miss")
		} else {
			report.Earnings = &earnings
			report.SourcesAvailable = append(report.SourcesAvailable, string(models.SourceEarningsTranscript))
			newest = laterOf(newest, entryDataDate(earningsEntry))
		}
	}
	if newsEntry != nil {
		var news models.NewsIntelligence
		if err := json.Unmarshal(newsEntry.Data, &news); err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Corrupt news cache payload, treating as miss")
		} else {
			report.News = &news
			report.SourcesAvailable = append(report.SourcesAvailable, string(models.SourceMarketNews))
			newest = laterOf(newest, entryDataDate(newsEntry))
		}
	}

	if report.Earnings == nil && report.News == nil {
		return nil, false
	}

	// Confidence from cache freshness: both kinds present = high, one =
	// medium. Data age comes from the most recent contributing row.
	if report.Earnings != nil && report.News != nil {
		report.Confidence = models.ConfidenceHigh
	} else {
		report.Confidence = models.ConfidenceMedium
	}

	if newest.IsZero() {
		report.DataAgeDays = models.NoDataAge
	} else {
		age := int(time.Since(newest).Hours() / 24)
		if age < 0 {
			age = 0
		}
		report.DataAgeDays = age
	}

	return report, true
}

func (s *Service) liveEntry(ctx context.Context, symbol string, sourceType models.SourceType) *models.CacheEntry {
	entry, err := s.storage.GetLive(ctx, symbol, sourceType)
	if err != nil {
		if !errors.Is(err, interfaces.ErrEntryNotFound) {
			s.logger.Warn().Err(err).Str("symbol", symbol).Str("source_type", string(sourceType)).Msg("Cache read failed, treating as miss")
		}
		return nil
	}
	return entry
}

// writeThrough upserts one cache row per present sub-report. Failures are
// logged and swallowed.
func (s *Service) writeThrough(ctx context.Context, report *models.IntelligenceReport) {
	now := time.Now()

	if report.Earnings != nil {
		dataDate := now
		if report.Earnings.LatestQuarter != nil {
			dataDate = report.Earnings.LatestQuarter.FiscalDateEnding
		}
		s.upsertEntry(ctx, report.Symbol, models.SourceEarningsTranscript, report.Earnings, dataDate, now)
	}

	if report.News != nil {
		dataDate := time.Time{}
		for _, article := range report.News.Articles {
			if article.TimePublished.After(dataDate) {
				dataDate = article.TimePublished
			}
		}
		if dataDate.IsZero() {
			dataDate = now
		}
		s.upsertEntry(ctx, report.Symbol, models.SourceMarketNews, report.News, dataDate, now)
	}
}

func (s *Service) upsertEntry(ctx context.Context, symbol string, sourceType models.SourceType, payload interface{}, dataDate, now time.Time) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Str("source_type", string(sourceType)).Msg("Failed to encode cache payload")
		return
	}

	entry := &models.CacheEntry{
		Symbol:         symbol,
		SourceType:     sourceType,
		Data:           data,
		DataDate:       dataDate,
		CachedAt:       now,
		ExpiresAt:      now.Add(models.TTLForSource(sourceType)),
		LastAccessedAt: now,
	}

	if err := s.storage.Upsert(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Str("source_type", string(sourceType)).Msg("Cache write failed, caller already has fresh data")
	}
}

// trackAccess bumps access counters for the rows that served a hit.
// Best-effort: failures are logged and never affect the parent call.
func (s *Service) trackAccess(symbol string, report *models.IntelligenceReport) {
	hasEarnings := report.Earnings != nil
	hasNews := report.News != nil

	common.SafeGo(s.logger, "cacheTrackAccess", func() {
		ctx := context.Background()
		if hasEarnings {
			if err := s.storage.Touch(ctx, symbol, models.SourceEarningsTranscript); err != nil {
				s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Access tracking failed (non-critical)")
			}
		}
		if hasNews {
			if err := s.storage.Touch(ctx, symbol, models.SourceMarketNews); err != nil {
				s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Access tracking failed (non-critical)")
			}
		}
	})
}

// Stats returns a snapshot of the running aggregates. Entry counts are
// read from storage best-effort; a count failure leaves them zero.
func (s *Service) Stats(ctx context.Context) models.CacheStats {
	hits := s.hits.Load()
	misses := s.misses.Load()
	calls := s.totalCalls.Load()

	stats := models.CacheStats{
		Hits:   hits,
		Misses: misses,
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	if calls > 0 {
		stats.AvgFetchTimeMs = float64(s.totalFetchMs.Load()) / float64(calls)
	}

	if count, err := s.storage.CountAll(ctx); err == nil {
		stats.TotalEntries = count
	} else {
		s.logger.Debug().Err(err).Msg("Failed to count cache entries for stats")
	}
	if count, err := s.storage.CountExpired(ctx); err == nil {
		stats.ExpiredEntries = count
	} else {
		s.logger.Debug().Err(err).Msg("Failed to count expired entries for stats")
	}

	return stats
}

// Cleanup deletes all expired rows and returns the count removed.
func (s *Service) Cleanup(ctx context.Context) (int, error) {
	count, err := s.storage.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("cache cleanup failed: %w", err)
	}

	if count > 0 {
		s.logger.Info().Int("deleted_count", count).Msg("Cleaned up expired cache entries")
	}

	return count, nil
}

// Invalidate deletes all rows for a symbol regardless of TTL.
func (s *Service) Invalidate(ctx context.Context, symbol string) error {
	count, err := s.storage.DeleteBySymbol(ctx, symbol)
	if err != nil {
		return fmt.Errorf("cache invalidation failed for %s: %w", symbol, err)
	}

	s.logger.Info().Str("symbol", symbol).Int("deleted_count", count).Msg("Invalidated cache entries")
	return nil
}

func entryDataDate(entry *models.CacheEntry) time.Time {
	if !entry.DataDate.IsZero() {
		return entry.DataDate
	}
	return entry.CachedAt
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// Ensure Service implements CacheService interface
var _ interfaces.CacheService = (*Service)(nil)
