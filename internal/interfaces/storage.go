// Package interfaces provides service and storage interfaces for
// dependency injection.
package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/optionsintel/internal/models"
)

// ErrEntryNotFound is returned when a cache entry does not exist or is no
// longer live.
var ErrEntryNotFound = errors.New("cache entry not found")

// CacheStorage persists TTL-bearing intelligence snapshots keyed by
// (symbol, source_type).
type CacheStorage interface {
	// GetLive returns the entry for (symbol, sourceType) if it exists and
	// its TTL has not passed. Returns ErrEntryNotFound otherwise.
	GetLive(ctx context.Context, symbol string, sourceType models.SourceType) (*models.CacheEntry, error)

	// Upsert writes an entry, replacing any previous snapshot for the same
	// (symbol, source_type) key.
	Upsert(ctx context.Context, entry *models.CacheEntry) error

	// Touch increments the access counter and refreshes the last-accessed
	// timestamp without changing content.
	Touch(ctx context.Context, symbol string, sourceType models.SourceType) error

	// DeleteExpired removes all rows whose TTL has passed and returns how
	// many were removed. Safe to run concurrently with reads and writes.
	DeleteExpired(ctx context.Context) (int, error)

	// DeleteBySymbol removes all rows for a symbol regardless of TTL.
	DeleteBySymbol(ctx context.Context, symbol string) (int, error)

	// CountAll returns the total number of cache rows.
	CountAll(ctx context.Context) (int, error)

	// CountExpired returns the number of rows whose TTL has passed.
	CountExpired(ctx context.Context) (int, error)
}

// IntelligenceStorage reads the market-intelligence store: earnings
// transcripts plus news articles joined with per-ticker sentiment.
type IntelligenceStorage interface {
	// RecentTranscripts returns up to limit transcripts for a symbol,
	// ordered by fiscal year desc then quarter desc.
	RecentTranscripts(ctx context.Context, symbol string, limit int) ([]models.EarningsTranscript, error)

	// TickerSentiments returns sentiment rows for a symbol created within
	// maxAgeDays, ranked by relevance desc, capped at limit.
	TickerSentiments(ctx context.Context, symbol string, maxAgeDays, limit int) ([]models.TickerSentiment, error)

	// ArticlesByIDs resolves article rows by ID. Missing IDs are simply
	// absent from the result map.
	ArticlesByIDs(ctx context.Context, ids []string) (map[string]models.NewsArticleRow, error)

	// SaveTranscript upserts a transcript row.
	SaveTranscript(ctx context.Context, transcript *models.EarningsTranscript) error

	// SaveArticle upserts an article row.
	SaveArticle(ctx context.Context, article *models.NewsArticleRow) error

	// SaveTickerSentiment upserts a ticker-sentiment row.
	SaveTickerSentiment(ctx context.Context, sentiment *models.TickerSentiment) error
}

// PatternStorage persists historical trade outcomes and retrievable
// research documents.
type PatternStorage interface {
	// QueryTrades returns trades matching the criteria: same symbol, same
	// strategy type when given, DTE within +-7 and delta within +-0.1 when
	// given.
	QueryTrades(ctx context.Context, criteria models.PatternCriteria) ([]models.TradeOutcome, error)

	// RecentDocuments returns research documents for a symbol created
	// within maxAgeDays, newest first.
	RecentDocuments(ctx context.Context, symbol string, maxAgeDays int) ([]models.ResearchDocument, error)

	// SaveTrade upserts a trade outcome row.
	SaveTrade(ctx context.Context, trade *models.TradeOutcome) error

	// SaveDocument upserts a research document.
	SaveDocument(ctx context.Context, doc *models.ResearchDocument) error
}

// StorageManager aggregates the storage interfaces behind one handle.
type StorageManager interface {
	CacheStorage() CacheStorage
	IntelligenceStorage() IntelligenceStorage
	PatternStorage() PatternStorage

	// RunValueLogGC reclaims space from deleted rows. Safe to call while
	// the database is in use; a no-op when nothing can be reclaimed.
	RunValueLogGC() error

	// Close releases the underlying database.
	Close() error
}
