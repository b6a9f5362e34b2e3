package judge

import (
	"strings"

	"github.com/novikoff/brandpulse/app/ingest"
)

// Relevance is the tri-state outcome of a judgment: yes, no, or unknown
// when the provider call failed.
type Relevance int

const (
	RelevanceUnknown Relevance = iota
	RelevanceNo
	RelevanceYes
)

func (r Relevance) String() string {
	switch r {
	case RelevanceYes:
		return "relevant"
	case RelevanceNo:
		return "irrelevant"
	default:
		return "unknown"
	}
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// FallbackSubject is the bucket for items without a recognized subject.
const FallbackSubject = "N/A"

// Subjects is the closed category set items are classified into.
var Subjects = []string{
	"Pricing",
	"Performance",
	"Support",
	"Features",
	"Integration",
	"User Experience",
	"General Discussion",
	"Complaints",
	"Recommendations",
}

// Judgment is the provider's verdict for one (item, brand) pair. It is
// produced once and never mutated.
type Judgment struct {
	Relevance      Relevance `json:"-"`
	IsRelevant     string    `json:"is_relevant"`
	Confidence     float64   `json:"confidence"`
	Subject        string    `json:"subject"`
	Sentiment      Sentiment `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	Reasoning      string    `json:"reasoning,omitempty"`
}

// JudgedItem pairs a raw item with its judgment.
type JudgedItem struct {
	Item     ingest.RawItem `json:"item"`
	Judgment Judgment       `json:"judgment"`
}

// Pools splits a judged batch. Only Relevant flows into ranking; Errors
// holds items whose judgment failed, kept for observability.
type Pools struct {
	Relevant   []JudgedItem
	Irrelevant []JudgedItem
	Errors     []JudgedItem
}

// NormalizeSubject folds values outside the closed category set into the
// fallback bucket.
func NormalizeSubject(subject string) string {
	for _, s := range Subjects {
		if strings.EqualFold(subject, s) {
			return s
		}
	}
	return FallbackSubject
}

// NormalizeSentiment folds unrecognized sentiment values into neutral.
func NormalizeSentiment(sentiment string) Sentiment {
	switch Sentiment(strings.ToLower(sentiment)) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	case SentimentMixed:
		return SentimentMixed
	default:
		return SentimentNeutral
	}
}

// Fallback builds the judgment synthesized when the provider fails:
// relevance unknown, neutral sentiment, zero score.
func Fallback(reason string) Judgment {
	return Judgment{
		Relevance:      RelevanceUnknown,
		IsRelevant:     RelevanceUnknown.String(),
		Confidence:     0.0,
		Subject:        FallbackSubject,
		Sentiment:      SentimentNeutral,
		SentimentScore: 0.0,
		Reasoning:      reason,
	}
}
