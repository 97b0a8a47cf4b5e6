package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IntelligenceStorage implements the IntelligenceStorage interface for Badger.
// It models the remote market-intelligence datastore's two logical tables:
// earnings transcripts and news articles joined with ticker sentiment.
type IntelligenceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewIntelligenceStorage creates a new IntelligenceStorage instance
func NewIntelligenceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.IntelligenceStorage {
	return &IntelligenceStorage{
		db:     db,
		logger: logger,
	}
}

// RecentTranscripts returns up to limit transcripts for a symbol, ordered
// by fiscal year desc then quarter desc.
func (s *IntelligenceStorage) RecentTranscripts(ctx context.Context, symbol string, limit int) ([]models.EarningsTranscript, error) {
	var transcripts []models.EarningsTranscript
	err := s.db.Store().Find(&transcripts, badgerhold.Where("Symbol").Eq(normalizeSymbol(symbol)))
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}

	// Secondary sort on quarter requires in-memory ordering
	sort.Slice(transcripts, func(i, j int) bool {
		if transcripts[i].FiscalYear != transcripts[j].FiscalYear {
			return transcripts[i].FiscalYear > transcripts[j].FiscalYear
		}
		return transcripts[i].Quarter > transcripts[j].Quarter
	})

	if limit > 0 && len(transcripts) > limit {
		transcripts = transcripts[:limit]
	}

	return transcripts, nil
}

// TickerSentiments returns sentiment rows for a symbol created within
// maxAgeDays, ranked by relevance desc, capped at limit.
func (s *IntelligenceStorage) TickerSentiments(ctx context.Context, symbol string, maxAgeDays, limit int) ([]models.TickerSentiment, error) {
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	var sentiments []models.TickerSentiment
	err := s.db.Store().Find(&sentiments,
		badgerhold.Where("Symbol").Eq(normalizeSymbol(symbol)).And("CreatedAt").Ge(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to query ticker sentiments: %w", err)
	}

	sort.Slice(sentiments, func(i, j int) bool {
		return sentiments[i].RelevanceScore > sentiments[j].RelevanceScore
	})

	if limit > 0 && len(sentiments) > limit {
		sentiments = sentiments[:limit]
	}

	return sentiments, nil
}

// ArticlesByIDs resolves article rows by ID. Missing IDs are absent from
// the result map rather than erroring.
func (s *IntelligenceStorage) ArticlesByIDs(ctx context.Context, ids []string) (map[string]models.NewsArticleRow, error) {
	articles := make(map[string]models.NewsArticleRow, len(ids))

	for _, id := range ids {
		var article models.NewsArticleRow
		err := s.db.Store().Get(id, &article)
		if err == badgerhold.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get article %s: %w", id, err)
		}
		articles[id] = article
	}

	return articles, nil
}

// SaveTranscript upserts a transcript row.
func (s *IntelligenceStorage) SaveTranscript(ctx context.Context, transcript *models.EarningsTranscript) error {
	if transcript.ID == "" {
		transcript.ID = uuid.New().String()
	}
	transcript.Symbol = normalizeSymbol(transcript.Symbol)
	if transcript.CreatedAt.IsZero() {
		transcript.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(transcript.ID, transcript); err != nil {
		return fmt.Errorf("failed to upsert transcript: %w", err)
	}
	return nil
}

// SaveArticle upserts an article row.
func (s *IntelligenceStorage) SaveArticle(ctx context.Context, article *models.NewsArticleRow) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(article.ID, article); err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}
	return nil
}

// SaveTickerSentiment upserts a ticker-sentiment row.
func (s *IntelligenceStorage) SaveTickerSentiment(ctx context.Context, sentiment *models.TickerSentiment) error {
	if sentiment.ID == "" {
		sentiment.ID = uuid.New().String()
	}
	sentiment.Symbol = normalizeSymbol(sentiment.Symbol)
	if sentiment.CreatedAt.IsZero() {
		sentiment.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(sentiment.ID, sentiment); err != nil {
		return fmt.Errorf("failed to upsert ticker sentiment: %w", err)
	}
	return nil
}
