// Package intelligence assembles earnings and news sub-reports for a
// symbol from the market-intelligence store and scores their confidence.
package intelligence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/optionsintel/internal/interfaces"
	"github.com/ternarybob/optionsintel/internal/models"
)

// Default fetch limits applied when options leave them zero.
const (
	DefaultMaxEarningsQuarters = 4
	DefaultMaxNewsArticles     = 20
	DefaultNewsMaxAgeDays      = 30

	// Excerpt length taken from the head of a transcript.
	transcriptExcerptLen = 500
)

// Service implements the IntelligenceService interface.
type Service struct {
	storage interfaces.IntelligenceStorage
	logger  arbor.ILogger
}

// NewService creates a new intelligence service.
func NewService(storage interfaces.IntelligenceStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// GetIntelligence builds a fresh report for a symbol. The earnings and
// news sub-fetches run in parallel and fail independently: an error in one
// is logged and yields a nil sub-report without cancelling the other.
func (s *Service) GetIntelligence(ctx context.Context, symbol string, opts interfaces.IntelligenceOptions) (*models.IntelligenceReport, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	if opts.MaxEarningsQuarters <= 0 {
		opts.MaxEarningsQuarters = DefaultMaxEarningsQuarters
	}
	if opts.MaxNewsArticles <= 0 {
		opts.MaxNewsArticles = DefaultMaxNewsArticles
	}
	if opts.NewsMaxAgeDays <= 0 {
		opts.NewsMaxAgeDays = DefaultNewsMaxAgeDays
	}

	var (
		wg       sync.WaitGroup
		earnings *models.EarningsIntelligence
		news     *models.NewsIntelligence
	)

	if opts.IncludeEarnings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			earnings = s.fetchEarnings(ctx, symbol, opts.MaxEarningsQuarters)
		}()
	}

	if opts.IncludeNews {
		wg.Add(1)
		go func() {
			defer wg.Done()
			news = s.fetchNews(ctx, symbol, opts.MaxNewsArticles, opts.NewsMaxAgeDays)
		}()
	}

	wg.Wait()

	report := &models.IntelligenceReport{
		Symbol:           symbol,
		Earnings:         earnings,
		News:             news,
		DataAgeDays:      DataAgeDays(earnings, news, time.Now()),
		SourcesAvailable: []string{},
	}

	earningsQuarters := 0
	if earnings != nil {
		earningsQuarters = len(earnings.Transcripts)
		report.SourcesAvailable = append(report.SourcesAvailable, string(models.SourceEarningsTranscript))
	}
	newsArticles := 0
	if news != nil {
		newsArticles = len(news.Articles)
		report.SourcesAvailable = append(report.SourcesAvailable, string(models.SourceMarketNews))
	}

	report.Confidence = ScoreConfidence(earningsQuarters, newsArticles, report.DataAgeDays)

	return report, nil
}

// fetchEarnings reads the most recent transcripts. Errors and empty
// results both yield a nil sub-report.
func (s *Service) fetchEarnings(ctx context.Context, symbol string, maxQuarters int) *models.EarningsIntelligence {
	transcripts, err := s.storage.RecentTranscripts(ctx, symbol, maxQuarters)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Earnings fetch failed, continuing without earnings")
		return nil
	}
	if len(transcripts) == 0 {
		return nil
	}

	summaries := make([]models.TranscriptSummary, 0, len(transcripts))
	for _, t := range transcripts {
		summaries = append(summaries, models.TranscriptSummary{
			Quarter:          t.Quarter,
			FiscalYear:       t.FiscalYear,
			FiscalDateEnding: t.FiscalDateEnding,
			Excerpt:          excerpt(t.Content, transcriptExcerptLen),
			FullText:         t.Content,
		})
	}

	return &models.EarningsIntelligence{
		Symbol:        symbol,
		Transcripts:   summaries,
		LatestQuarter: &summaries[0],
	}
}

// fetchNews is the two-step news read: ranked sentiment rows first, then a
// join against the article store. An article present in the sentiment rows
// but missing from the article store is dropped.
func (s *Service) fetchNews(ctx context.Context, symbol string, maxArticles, maxAgeDays int) *models.NewsIntelligence {
	sentiments, err := s.storage.TickerSentiments(ctx, symbol, maxAgeDays, maxArticles)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("News sentiment fetch failed, continuing without news")
		return nil
	}
	if len(sentiments) == 0 {
		return nil
	}

	ids := make([]string, 0, len(sentiments))
	for _, sentiment := range sentiments {
		ids = append(ids, sentiment.ArticleID)
	}

	rows, err := s.storage.ArticlesByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Article join failed, continuing without news")
		return nil
	}

	articles := make([]models.Article, 0, len(sentiments))
	for _, sentiment := range sentiments {
		row, ok := rows[sentiment.ArticleID]
		if !ok {
			continue
		}

		// Prefer the per-ticker sentiment row; fall back to the article's
		// own stored score when the row carries none.
		score := sentiment.SentimentScore
		label := sentiment.SentimentLabel
		if label == "" {
			score = row.SentimentScore
			label = row.SentimentLabel
		}

		articles = append(articles, models.Article{
			ID:             row.ID,
			Title:          row.Title,
			Summary:        row.Summary,
			URL:            row.URL,
			TimePublished:  row.TimePublished,
			Source:         row.Source,
			SentimentScore: score,
			SentimentLabel: label,
			RelevanceScore: sentiment.RelevanceScore,
			Topics:         row.Topics,
		})
	}

	if len(articles) == 0 {
		return nil
	}

	return &models.NewsIntelligence{
		Symbol:    symbol,
		Articles:  articles,
		Aggregate: AggregateArticles(articles),
	}
}

func excerpt(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	return content[:limit]
}

// Ensure Service implements IntelligenceService interface
var _ interfaces.IntelligenceService = (*Service)(nil)
