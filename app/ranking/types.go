package ranking

import (
	"time"

	"github.com/novikoff/brandpulse/app/judge"
)

// ScoredItem is a copy of a judged item carrying its derived engagement
// score. Ranking never mutates its input.
type ScoredItem struct {
	judge.JudgedItem
	EngagementScore float64 `json:"engagement_score"`
}

type SentimentBreakdown struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

// CategoryStats is one entry of the ordered category distribution.
type CategoryStats struct {
	Category           string             `json:"category"`
	Percentage         float64            `json:"percentage"`
	Count              int                `json:"count"`
	SentimentBreakdown SentimentBreakdown `json:"sentiment_breakdown"`
}

// CategoryPosts holds the top posts of one of the leading categories.
type CategoryPosts struct {
	Category string       `json:"category"`
	Posts    []ScoredItem `json:"posts"`
}

// BrandReport is the per-brand aggregate produced by one ranking run.
type BrandReport struct {
	Brand                string          `json:"brand"`
	TotalPosts           int             `json:"total_posts"`
	CategoryDistribution []CategoryStats `json:"category_distribution"`
	TopPosts             []ScoredItem    `json:"top_posts"`
	TopPostsByCategory   []CategoryPosts `json:"top_posts_by_category"`
}

// Report is the final structure served to clients: every brand's report
// in brand configuration order.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Brands      []BrandReport `json:"brands"`
}
