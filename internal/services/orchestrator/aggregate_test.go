package orchestrator

import (
	"math"
	"testing"

	"github.com/ternarybob/optionsintel/internal/models"
)

func ragWith(winRate float64, tradeCount int) models.PatternAnalysis {
	trades := make([]models.SimilarTrade, tradeCount)
	for i := range trades {
		trades[i] = models.SimilarTrade{Symbol: "AMD"}
	}
	return models.PatternAnalysis{
		HasData:       true,
		TradeCount:    tradeCount,
		WinRate:       winRate,
		SimilarTrades: trades,
	}
}

func reportWith(newsScore float64, hasEarnings bool, ageDays int, confidence models.Confidence) *models.IntelligenceReport {
	report := &models.IntelligenceReport{
		Symbol:      "AMD",
		Confidence:  confidence,
		DataAgeDays: ageDays,
		News: &models.NewsIntelligence{
			Aggregate: models.AggregateSentiment{AverageScore: newsScore, ArticleCount: 5},
		},
	}
	if hasEarnings {
		report.Earnings = &models.EarningsIntelligence{}
	}
	return report
}

func TestCalculateAggregate(t *testing.T) {
	tests := []struct {
		name          string
		rag           models.PatternAnalysis
		report        *models.IntelligenceReport
		wantSentiment models.OverallSentiment
		wantScore     float64
		wantQuality   int
		wantStrength  models.RecommendationStrength
	}{
		{
			name:          "nothing contributes",
			rag:           models.PatternAnalysis{},
			report:        nil,
			wantSentiment: models.SentimentOverallUnknown,
			wantScore:     0,
			wantQuality:   0,
			wantStrength:  models.StrengthWeak,
		},
		{
			name:          "strong bullish across all sources",
			rag:           ragWith(0.75, 12),
			report:        reportWith(0.4, true, 3, models.ConfidenceHigh),
			wantSentiment: models.SentimentOverallBullish,
			wantScore:     0.45, // (0.5 + 0.4) / 2
			wantQuality:   100,
			wantStrength:  models.StrengthStrong,
		},
		{
			name:          "bearish history with bearish news",
			rag:           ragWith(0.30, 8),
			report:        reportWith(-0.2, false, 5, models.ConfidenceMedium),
			wantSentiment: models.SentimentOverallBearish,
			wantScore:     -0.35, // (-0.5 + -0.2) / 2
			wantQuality:   70,
			wantStrength:  models.StrengthStrong,
		},
		{
			name:          "indecisive win rate contributes nothing",
			rag:           ragWith(0.50, 6),
			report:        reportWith(0.1, false, 5, models.ConfidenceLow),
			wantSentiment: models.SentimentOverallNeutral,
			wantScore:     0.1, // news alone
			wantQuality:   70,
			wantStrength:  models.StrengthWeak,
		},
		{
			name:          "news only moderate",
			rag:           models.PatternAnalysis{},
			report:        reportWith(0.25, false, 2, models.ConfidenceMedium),
			wantSentiment: models.SentimentOverallBullish,
			wantScore:     0.25,
			wantQuality:   40,
			wantStrength:  models.StrengthModerate,
		},
		{
			name:          "rag only weak quality",
			rag:           ragWith(0.75, 12),
			report:        nil,
			wantSentiment: models.SentimentOverallBullish,
			wantScore:     0.5,
			wantQuality:   30,
			wantStrength:  models.StrengthWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateAggregate(tt.rag, tt.report)

			if got.OverallSentiment != tt.wantSentiment {
				t.Errorf("OverallSentiment = %s, want %s", got.OverallSentiment, tt.wantSentiment)
			}
			if math.Abs(got.SentimentScore-tt.wantScore) > 1e-9 {
				t.Errorf("SentimentScore = %f, want %f", got.SentimentScore, tt.wantScore)
			}
			if got.DataQualityScore != tt.wantQuality {
				t.Errorf("DataQualityScore = %d, want %d", got.DataQualityScore, tt.wantQuality)
			}
			if got.RecommendationStrength != tt.wantStrength {
				t.Errorf("RecommendationStrength = %s, want %s", got.RecommendationStrength, tt.wantStrength)
			}
		})
	}
}

// The aggregate score is a mean of contributions each bounded by [-1, 1],
// so it stays within [-1, 1] for any input.
func TestCalculateAggregateBounded(t *testing.T) {
	winRates := []float64{0, 0.2, 0.39, 0.4, 0.5, 0.6, 0.61, 1}
	newsScores := []float64{-1, -0.5, 0, 0.5, 1}

	for _, wr := range winRates {
		for _, ns := range newsScores {
			got := calculateAggregate(ragWith(wr, 5), reportWith(ns, true, 1, models.ConfidenceHigh))
			if got.SentimentScore < -1 || got.SentimentScore > 1 {
				t.Errorf("SentimentScore %f out of bounds (winRate=%f news=%f)", got.SentimentScore, wr, ns)
			}
		}
	}
}

func TestCalculateConfidence(t *testing.T) {
	tests := []struct {
		name   string
		rag    models.PatternAnalysis
		report *models.IntelligenceReport
		tavily models.TavilyBlock
		want   models.Confidence
	}{
		{
			name: "no sources",
			want: models.ConfidenceLow,
		},
		{
			name:   "everything fresh and deep",
			rag:    ragWith(0.7, 12),
			report: reportWith(0.3, true, 3, models.ConfidenceHigh),
			tavily: models.TavilyBlock{ResultCount: 3},
			want:   models.ConfidenceHigh, // 30+40+15+15 = 100
		},
		{
			name:   "shallow rag with medium external",
			rag:    ragWith(0.7, 5),
			report: reportWith(0.3, false, 20, models.ConfidenceMedium),
			want:   models.ConfidenceLow, // 15+20 = 35
		},
		{
			name:   "medium boundary",
			rag:    ragWith(0.7, 5),
			report: reportWith(0.3, false, 5, models.ConfidenceMedium),
			want:   models.ConfidenceMedium, // 15+20+15 = 50
		},
		{
			name:   "tavily alone is low",
			tavily: models.TavilyBlock{ResultCount: 5},
			want:   models.ConfidenceLow, // 15
		},
		{
			name:   "high boundary exact",
			rag:    ragWith(0.7, 10),
			report: reportWith(0.3, false, 30, models.ConfidenceMedium),
			tavily: models.TavilyBlock{ResultCount: 1},
			want:   models.ConfidenceMedium, // 30+20+15 = 65
		},
		{
			name:   "deep rag with high external",
			rag:    ragWith(0.7, 10),
			report: reportWith(0.3, true, 30, models.ConfidenceHigh),
			want:   models.ConfidenceHigh, // 30+40 = 70
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateConfidence(tt.rag, tt.report, tt.tavily)
			if got != tt.want {
				t.Errorf("calculateConfidence = %s, want %s", got, tt.want)
			}
		})
	}
}
