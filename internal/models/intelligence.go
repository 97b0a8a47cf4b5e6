// Package models defines the data structures shared across the intelligence
// orchestration services.
package models

import "time"

// Confidence is the coarse tier summarizing how much and how fresh the
// underlying evidence is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SentimentLabel classifies an individual article or aggregate score.
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "Bullish"
	SentimentNeutral SentimentLabel = "Neutral"
	SentimentBearish SentimentLabel = "Bearish"
)

// Sentiment label thresholds. Scores above/below these map to Bullish/Bearish.
const (
	BullishThreshold = 0.15
	BearishThreshold = -0.15
)

// NoDataAge is the DataAgeDays sentinel meaning "no data at all".
const NoDataAge = 999

// LabelForScore maps a sentiment score in [-1, 1] to its label.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score > BullishThreshold:
		return SentimentBullish
	case score < BearishThreshold:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

// TranscriptSummary is one quarter's earnings call transcript.
type TranscriptSummary struct {
	Quarter          int       `json:"quarter"`
	FiscalYear       int       `json:"fiscal_year"`
	FiscalDateEnding time.Time `json:"fiscal_date_ending"`
	Excerpt          string    `json:"excerpt"`
	FullText         string    `json:"full_text,omitempty"`
}

// EarningsIntelligence is the earnings sub-report for a symbol.
// Transcripts are ordered most recent first (fiscal year desc, quarter desc).
type EarningsIntelligence struct {
	Symbol        string              `json:"symbol"`
	Transcripts   []TranscriptSummary `json:"transcripts"`
	LatestQuarter *TranscriptSummary  `json:"latest_quarter,omitempty"`
}

// Article is a news article enriched with per-ticker sentiment.
type Article struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Summary        string         `json:"summary"`
	URL            string         `json:"url"`
	TimePublished  time.Time      `json:"time_published"`
	Source         string         `json:"source"`
	SentimentScore float64        `json:"sentiment_score"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	RelevanceScore float64        `json:"relevance_score"`
	Topics         []string       `json:"topics,omitempty"`
}

// AggregateSentiment is derived deterministically from an article list:
// arithmetic mean of scores, labeled at the +-0.15 thresholds.
type AggregateSentiment struct {
	AverageScore float64        `json:"average_score"`
	Label        SentimentLabel `json:"label"`
	ArticleCount int            `json:"article_count"`
}

// NewsIntelligence is the news sub-report for a symbol.
type NewsIntelligence struct {
	Symbol    string             `json:"symbol"`
	Articles  []Article          `json:"articles"`
	Aggregate AggregateSentiment `json:"aggregate_sentiment"`
}

// IntelligenceReport is the per-symbol snapshot assembled from the earnings
// and news sub-reports. A nil sub-report means that source had no data;
// callers must nil-check before dereferencing. Reports are immutable once
// constructed and rebuilt on every fetch.
type IntelligenceReport struct {
	Symbol           string                `json:"symbol"`
	Earnings         *EarningsIntelligence `json:"earnings,omitempty"`
	News             *NewsIntelligence     `json:"news,omitempty"`
	Confidence       Confidence            `json:"confidence"`
	DataAgeDays      int                   `json:"data_age_days"`
	SourcesAvailable []string              `json:"sources_available"`
}

// HasData reports whether at least one sub-report is present.
func (r *IntelligenceReport) HasData() bool {
	return r != nil && (r.Earnings != nil || r.News != nil)
}
