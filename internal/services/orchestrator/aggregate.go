package orchestrator

import (
	"math"

	"github.com/ternarybob/optionsintel/internal/models"
)

// Win-rate thresholds for the internal RAG sentiment contribution.
const (
	winRateBullish = 0.6
	winRateBearish = 0.4
	ragSentiment   = 0.5
)

// Data-quality contributions. Additive and independent; the sum is a soft
// indicator, not a strict percentage.
const (
	qualityRAG      = 30
	qualityNews     = 40
	qualityEarnings = 30
)

// Recommendation strength gates.
const (
	strongQuality     = 70
	strongSentiment   = 0.3
	moderateQuality   = 40
	moderateSentiment = 0.15
)

// Overall confidence contributions.
const (
	ragDeepScore        = 30 // >= 10 similar trades
	ragShallowScore     = 15 // >= 3 similar trades
	externalHighScore   = 40
	externalMediumScore = 20
	tavilyScore         = 15 // any web results
	recencyBonus        = 15 // external data age <= 7 days

	overallHighThreshold   = 70
	overallMediumThreshold = 40
)

// calculateAggregate combines the branches into one sentiment/quality view.
//
// Sentiment: the internal RAG win rate contributes +-0.5 when decisively
// bullish/bearish (nothing in between); the external news average score is
// added unconditionally when present. The result is the mean of the
// contributions, labeled at the +-0.15 thresholds, or "unknown" when
// nothing contributed.
func calculateAggregate(rag models.PatternAnalysis, report *models.IntelligenceReport) models.AggregateAnalysis {
	sum := 0.0
	count := 0

	if rag.HasData {
		if rag.WinRate > winRateBullish {
			sum += ragSentiment
			count++
		} else if rag.WinRate < winRateBearish {
			sum -= ragSentiment
			count++
		}
	}

	newsPresent := report != nil && report.News != nil
	earningsPresent := report != nil && report.Earnings != nil

	if newsPresent {
		sum += report.News.Aggregate.AverageScore
		count++
	}

	sentiment := 0.0
	if count > 0 {
		sentiment = sum / float64(count)
	}

	quality := 0
	if rag.HasData {
		quality += qualityRAG
	}
	if newsPresent {
		quality += qualityNews
	}
	if earningsPresent {
		quality += qualityEarnings
	}

	return models.AggregateAnalysis{
		OverallSentiment:       sentimentLabel(sentiment, count),
		SentimentScore:         sentiment,
		DataQualityScore:       quality,
		RecommendationStrength: recommendationStrength(quality, sentiment),
	}
}

func sentimentLabel(sentiment float64, contributions int) models.OverallSentiment {
	switch {
	case contributions == 0:
		return models.SentimentOverallUnknown
	case sentiment > models.BullishThreshold:
		return models.SentimentOverallBullish
	case sentiment < models.BearishThreshold:
		return models.SentimentOverallBearish
	default:
		return models.SentimentOverallNeutral
	}
}

func recommendationStrength(quality int, sentiment float64) models.RecommendationStrength {
	abs := math.Abs(sentiment)
	switch {
	case quality >= strongQuality && abs > strongSentiment:
		return models.StrengthStrong
	case quality >= moderateQuality && abs > moderateSentiment:
		return models.StrengthModerate
	default:
		return models.StrengthWeak
	}
}

// calculateConfidence computes the overall confidence tier across all
// branches. Distinct from the external intelligence report's own
// confidence, which contributes to it as one weighted input.
func calculateConfidence(rag models.PatternAnalysis, report *models.IntelligenceReport, tavily models.TavilyBlock) models.Confidence {
	score := 0

	if rag.HasData {
		if len(rag.SimilarTrades) >= 10 {
			score += ragDeepScore
		} else if len(rag.SimilarTrades) >= 3 {
			score += ragShallowScore
		}
	}

	if report != nil {
		switch report.Confidence {
		case models.ConfidenceHigh:
			score += externalHighScore
		case models.ConfidenceMedium:
			score += externalMediumScore
		}
		if report.HasData() && report.DataAgeDays <= 7 {
			score += recencyBonus
		}
	}

	if tavily.ResultCount > 0 {
		score += tavilyScore
	}

	switch {
	case score >= overallHighThreshold:
		return models.ConfidenceHigh
	case score >= overallMediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
