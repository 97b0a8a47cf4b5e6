package intelligence

import (
	"testing"
	"time"

	"github.com/ternarybob/optionsintel/internal/models"
)

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name             string
		earningsQuarters int
		newsArticles     int
		dataAgeDays      int
		want             models.Confidence
	}{
		{
			name: "no data at all",
			// age 999 sentinel contributes nothing
			earningsQuarters: 0,
			newsArticles:     0,
			dataAgeDays:      models.NoDataAge,
			want:             models.ConfidenceLow,
		},
		{
			name:             "full coverage and fresh",
			earningsQuarters: 4,
			newsArticles:     15,
			dataAgeDays:      2,
			want:             models.ConfidenceHigh, // 40+40+20
		},
		{
			name:             "stale but deep coverage stays high",
			earningsQuarters: 3,
			newsArticles:     12,
			dataAgeDays:      40,
			want:             models.ConfidenceHigh, // 40+40+0 = 80
		},
		{
			name:             "partial earnings only",
			earningsQuarters: 1,
			newsArticles:     0,
			dataAgeDays:      5,
			want:             models.ConfidenceMedium, // 20+0+20 = 40
		},
		{
			name:             "partial news aging",
			earningsQuarters: 0,
			newsArticles:     5,
			dataAgeDays:      20,
			want:             models.ConfidenceLow, // 0+20+10 = 30
		},
		{
			name:             "medium boundary exact",
			earningsQuarters: 1,
			newsArticles:     4,
			dataAgeDays:      8,
			want:             models.ConfidenceLow, // 20+0+10 = 30
		},
		{
			name:             "high boundary exact",
			earningsQuarters: 3,
			newsArticles:     5,
			dataAgeDays:      30,
			want:             models.ConfidenceHigh, // 40+20+10 = 70
		},
		{
			name:             "recency boundary seven days",
			earningsQuarters: 0,
			newsArticles:     10,
			dataAgeDays:      7,
			want:             models.ConfidenceMedium, // 0+40+20 = 60
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreConfidence(tt.earningsQuarters, tt.newsArticles, tt.dataAgeDays)
			if got != tt.want {
				t.Errorf("ScoreConfidence(%d, %d, %d) = %s, want %s",
					tt.earningsQuarters, tt.newsArticles, tt.dataAgeDays, got, tt.want)
			}
		})
	}
}

// More evidence never lowers the tier.
func TestScoreConfidenceMonotonic(t *testing.T) {
	rank := map[models.Confidence]int{
		models.ConfidenceLow:    0,
		models.ConfidenceMedium: 1,
		models.ConfidenceHigh:   2,
	}

	quarters := []int{0, 1, 2, 3, 5}
	articles := []int{0, 4, 5, 9, 10, 25}
	ages := []int{0, 7, 8, 30, 31, models.NoDataAge}

	for _, age := range ages {
		for qi := 1; qi < len(quarters); qi++ {
			for _, n := range articles {
				lo := rank[ScoreConfidence(quarters[qi-1], n, age)]
				hi := rank[ScoreConfidence(quarters[qi], n, age)]
				if hi < lo {
					t.Errorf("confidence dropped when quarters rose %d -> %d (articles=%d age=%d)",
						quarters[qi-1], quarters[qi], n, age)
				}
			}
		}
		for ni := 1; ni < len(articles); ni++ {
			for _, q := range quarters {
				lo := rank[ScoreConfidence(q, articles[ni-1], age)]
				hi := rank[ScoreConfidence(q, articles[ni], age)]
				if hi < lo {
					t.Errorf("confidence dropped when articles rose %d -> %d (quarters=%d age=%d)",
						articles[ni-1], articles[ni], q, age)
				}
			}
		}
	}
}

func TestAggregateArticles(t *testing.T) {
	makeArticles := func(scores ...float64) []models.Article {
		articles := make([]models.Article, len(scores))
		for i, s := range scores {
			articles[i] = models.Article{ID: "a", SentimentScore: s}
		}
		return articles
	}

	tests := []struct {
		name      string
		articles  []models.Article
		wantScore float64
		wantLabel models.SentimentLabel
	}{
		{
			name:      "empty list is neutral",
			articles:  nil,
			wantScore: 0,
			wantLabel: models.SentimentNeutral,
		},
		{
			name:      "bullish average",
			articles:  makeArticles(0.3, 0.2, 0.4),
			wantScore: 0.3,
			wantLabel: models.SentimentBullish,
		},
		{
			name:      "bearish average",
			articles:  makeArticles(-0.5, -0.1),
			wantScore: -0.3,
			wantLabel: models.SentimentBearish,
		},
		{
			name:      "threshold is exclusive",
			articles:  makeArticles(0.15),
			wantScore: 0.15,
			wantLabel: models.SentimentNeutral,
		},
		{
			name:      "mixed cancels to neutral",
			articles:  makeArticles(0.4, -0.4),
			wantScore: 0,
			wantLabel: models.SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateArticles(tt.articles)
			if diff := got.AverageScore - tt.wantScore; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("AverageScore = %f, want %f", got.AverageScore, tt.wantScore)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %s, want %s", got.Label, tt.wantLabel)
			}
			if got.ArticleCount != len(tt.articles) {
				t.Errorf("ArticleCount = %d, want %d", got.ArticleCount, len(tt.articles))
			}
		})
	}
}

func TestDataAgeDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	earningsAt := func(ts time.Time) *models.EarningsIntelligence {
		summary := models.TranscriptSummary{FiscalDateEnding: ts}
		return &models.EarningsIntelligence{
			Transcripts:   []models.TranscriptSummary{summary},
			LatestQuarter: &summary,
		}
	}
	newsAt := func(times ...time.Time) *models.NewsIntelligence {
		articles := make([]models.Article, len(times))
		for i, ts := range times {
			articles[i] = models.Article{TimePublished: ts}
		}
		return &models.NewsIntelligence{Articles: articles}
	}

	tests := []struct {
		name     string
		earnings *models.EarningsIntelligence
		news     *models.NewsIntelligence
		want     int
	}{
		{
			name: "no data returns sentinel",
			want: models.NoDataAge,
		},
		{
			name:     "earnings only",
			earnings: earningsAt(now.AddDate(0, 0, -10)),
			want:     10,
		},
		{
			name: "news only uses newest article",
			news: newsAt(now.AddDate(0, 0, -20), now.AddDate(0, 0, -3)),
			want: 3,
		},
		{
			name:     "newer source wins",
			earnings: earningsAt(now.AddDate(0, 0, -90)),
			news:     newsAt(now.AddDate(0, 0, -2)),
			want:     2,
		},
		{
			name:     "future timestamps clamp to zero",
			earnings: earningsAt(now.Add(6 * time.Hour)),
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DataAgeDays(tt.earnings, tt.news, now)
			if got != tt.want {
				t.Errorf("DataAgeDays = %d, want %d", got, tt.want)
			}
		})
	}
}
