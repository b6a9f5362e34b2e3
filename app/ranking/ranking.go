package ranking

import (
	"math"
	"sort"

	"github.com/novikoff/brandpulse/app/judge"
)

const (
	// DefaultTopPosts is the length of the overall top-posts list.
	DefaultTopPosts = 10
	// DefaultTopCategories is how many leading categories get their own
	// top-posts list.
	DefaultTopCategories = 3
	// DefaultPostsPerCategory is the length of each per-category list.
	DefaultPostsPerCategory = 3
)

// Score computes the engagement score for one item:
// upvotes weigh 1.0, comments 2.0, the quality ratio 10.0.
func Score(item judge.JudgedItem) float64 {
	return float64(item.Item.EngagementCount)*1.0 +
		float64(item.Item.CommentCount)*2.0 +
		item.Item.QualityRatio*10.0
}

// Rank turns a brand's relevant judged items into a full BrandReport.
// Empty input yields a zero-valued report, not an error.
func Rank(brandName string, items []judge.JudgedItem) BrandReport {
	return BrandReport{
		Brand:                brandName,
		TotalPosts:           len(items),
		CategoryDistribution: CategoryDistribution(items),
		TopPosts:             TopScoredPosts(items, DefaultTopPosts),
		TopPostsByCategory:   TopPostsByTopCategories(items, DefaultTopCategories, DefaultPostsPerCategory),
	}
}

// CategoryDistribution groups items by judged subject and returns
// per-category share and sentiment breakdown, ordered by percentage
// descending. Ties keep first-seen category order.
func CategoryDistribution(items []judge.JudgedItem) []CategoryStats {
	if len(items) == 0 {
		return []CategoryStats{}
	}

	type categoryAccum struct {
		count      int
		sentiments map[judge.Sentiment]int
	}

	var order []string
	accums := make(map[string]*categoryAccum)

	for _, item := range items {
		subject := subjectOf(item)
		accum, ok := accums[subject]
		if !ok {
			accum = &categoryAccum{sentiments: make(map[judge.Sentiment]int)}
			accums[subject] = accum
			order = append(order, subject)
		}
		accum.count++
		accum.sentiments[judge.NormalizeSentiment(string(item.Judgment.Sentiment))]++
	}

	total := len(items)
	distribution := make([]CategoryStats, 0, len(order))
	for _, category := range order {
		accum := accums[category]
		distribution = append(distribution, CategoryStats{
			Category:   category,
			Percentage: round1(100 * float64(accum.count) / float64(total)),
			Count:      accum.count,
			SentimentBreakdown: SentimentBreakdown{
				Positive: round1(100 * float64(accum.sentiments[judge.SentimentPositive]) / float64(accum.count)),
				Negative: round1(100 * float64(accum.sentiments[judge.SentimentNegative]) / float64(accum.count)),
				Neutral:  round1(100 * float64(accum.sentiments[judge.SentimentNeutral]) / float64(accum.count)),
				Mixed:    round1(100 * float64(accum.sentiments[judge.SentimentMixed]) / float64(accum.count)),
			},
		})
	}

	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Percentage > distribution[j].Percentage
	})

	return distribution
}

// TopScoredPosts returns up to n items sorted by engagement score
// descending. The sort is stable so input order breaks ties, keeping
// results reproducible across runs.
func TopScoredPosts(items []judge.JudgedItem, n int) []ScoredItem {
	if len(items) == 0 {
		return []ScoredItem{}
	}

	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, ScoredItem{
			JudgedItem:      item,
			EngagementScore: Score(item),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].EngagementScore > scored[j].EngagementScore
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// TopPostsByTopCategories picks the nCategories leading categories from
// the distribution and returns each one's nPosts top-scored items.
// Categories without members are omitted, not zero-padded.
func TopPostsByTopCategories(items []judge.JudgedItem, nCategories, nPosts int) []CategoryPosts {
	if len(items) == 0 {
		return []CategoryPosts{}
	}

	distribution := CategoryDistribution(items)
	if len(distribution) > nCategories {
		distribution = distribution[:nCategories]
	}

	byCategory := make(map[string][]judge.JudgedItem)
	for _, item := range items {
		subject := subjectOf(item)
		byCategory[subject] = append(byCategory[subject], item)
	}

	result := make([]CategoryPosts, 0, len(distribution))
	for _, stats := range distribution {
		members := byCategory[stats.Category]
		if len(members) == 0 {
			continue
		}
		result = append(result, CategoryPosts{
			Category: stats.Category,
			Posts:    TopScoredPosts(members, nPosts),
		})
	}
	return result
}

func subjectOf(item judge.JudgedItem) string {
	if item.Judgment.Subject == "" {
		return judge.FallbackSubject
	}
	return item.Judgment.Subject
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
