package database

import (
	"time"
)

// Run records one refresh of one brand.
type Run struct {
	ID          string
	Brand       string
	StartedAt   time.Time
	CompletedAt *time.Time
	Status      string // running, success, failed
	Error       string
}

// Item is one relevant judged item persisted for a run.
type Item struct {
	RunID           string
	Brand           string
	Source          string
	SourceID        string
	IngestType      string
	Title           string
	Body            string
	URL             string
	Permalink       string
	Author          string
	Community       string
	CreatedAt       time.Time
	EngagementCount int
	CommentCount    int
	QualityRatio    float64
	Subject         string
	Sentiment       string
	SentimentScore  float64
	Confidence      float64
}

// ReportDocument is one brand's serialized report within a run, in the
// order the brands were processed.
type ReportDocument struct {
	Brand     string
	Document  string
	CreatedAt time.Time
}
