package intelligence

import (
	"time"

	"github.com/ternarybob/optionsintel/internal/models"
)

// Confidence scoring weights. Contributions are additive: quarters of
// earnings coverage, breadth of news coverage, and recency of the most
// recent data point.
const (
	earningsFullScore    = 40 // >= 3 quarters
	earningsPartialScore = 20 // >= 1 quarter
	newsFullScore        = 40 // >= 10 articles
	newsPartialScore     = 20 // >= 5 articles
	recencyFullScore     = 20 // data age <= 7 days
	recencyPartialScore  = 10 // data age <= 30 days

	confidenceHighThreshold   = 70
	confidenceMediumThreshold = 40
)

// ScoreConfidence computes the confidence tier for a report from its
// earnings depth, news breadth, and data age.
func ScoreConfidence(earningsQuarters, newsArticles, dataAgeDays int) models.Confidence {
	score := 0

	if earningsQuarters >= 3 {
		score += earningsFullScore
	} else if earningsQuarters >= 1 {
		score += earningsPartialScore
	}

	if newsArticles >= 10 {
		score += newsFullScore
	} else if newsArticles >= 5 {
		score += newsPartialScore
	}

	if dataAgeDays <= 7 {
		score += recencyFullScore
	} else if dataAgeDays <= 30 {
		score += recencyPartialScore
	}

	switch {
	case score >= confidenceHighThreshold:
		return models.ConfidenceHigh
	case score >= confidenceMediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// AggregateArticles computes the deterministic aggregate sentiment for an
// article list: arithmetic mean of scores, labeled at the +-0.15 thresholds.
func AggregateArticles(articles []models.Article) models.AggregateSentiment {
	if len(articles) == 0 {
		return models.AggregateSentiment{Label: models.SentimentNeutral}
	}

	sum := 0.0
	for _, article := range articles {
		sum += article.SentimentScore
	}
	avg := sum / float64(len(articles))

	return models.AggregateSentiment{
		AverageScore: avg,
		Label:        models.LabelForScore(avg),
		ArticleCount: len(articles),
	}
}

// DataAgeDays returns whole days between now and the more recent of the
// latest earnings fiscal date and the latest news publication time, or the
// NoDataAge sentinel when neither sub-report has data.
func DataAgeDays(earnings *models.EarningsIntelligence, news *models.NewsIntelligence, now time.Time) int {
	var latest time.Time

	if earnings != nil && earnings.LatestQuarter != nil {
		latest = earnings.LatestQuarter.FiscalDateEnding
	}
	if news != nil {
		for _, article := range news.Articles {
			if article.TimePublished.After(latest) {
				latest = article.TimePublished
			}
		}
	}

	if latest.IsZero() {
		return models.NoDataAge
	}

	age := int(now.Sub(latest).Hours() / 24)
	if age < 0 {
		age = 0
	}
	return age
}
