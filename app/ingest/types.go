package ingest

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/novikoff/brandpulse/app/brand"
)

type Source string

const (
	SourceReddit     Source = "reddit"
	SourceHackerNews Source = "hackernews"
	SourceNews       Source = "news"
)

// RawItem is one fetched unit of content in the common shape shared by
// all source adapters.
type RawItem struct {
	Source          Source    `json:"source"`
	IngestType      string    `json:"ingest_type"` // how the item was found, e.g. the sort strategy
	ID              string    `json:"id"`
	Text            string    `json:"text"` // title + body, used for matching
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	URL             string    `json:"url"`
	Permalink       string    `json:"permalink"`
	CreatedAt       time.Time `json:"created_at"`
	Author          string    `json:"author"`
	EngagementCount int       `json:"engagement_count"` // upvotes/points
	CommentCount    int       `json:"comment_count"`
	Community       string    `json:"community"` // e.g. subreddit name
	QualityRatio    float64   `json:"quality_ratio"`
}

// QualifiedID prefixes the item id with its source so ids from different
// sources can never collide in the deduplicator.
func (i RawItem) QualifiedID() string {
	return string(i.Source) + ":" + i.ID
}

// truncateText cuts s to at most limit bytes without splitting a UTF-8
// sequence.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Request is one fan-out unit handed to an adapter: a (sub-source,
// strategy) pair plus the search term and fetch constraints.
type Request struct {
	Term      string
	Community string // sub-source, empty when the source has no partitions
	Strategy  string // retrieval ordering mode
	Limit     int
	Cutoff    time.Time
	Timeout   time.Duration
	Extract   bool // pull article text for items without a body
}

// Adapter is a per-source client. Fetch must not fail on transient
// network errors: it logs and returns an empty slice so the orchestrator
// can continue with other sub-sources.
type Adapter interface {
	Source() Source
	Requests(config *brand.Config) []Request
	Fetch(ctx context.Context, req Request) []RawItem
}
