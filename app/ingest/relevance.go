package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/novikoff/brandpulse/app/brand"
)

// Phase selects how strictly an ambiguous brand word must be matched.
// PhaseCapitalized requires the brand's proper-name capitalization,
// PhaseAnyCase accepts any capitalization. Unambiguous brands only ever
// use PhaseAnyCase.
type Phase int

const (
	PhaseCapitalized Phase = iota
	PhaseAnyCase
)

func (p Phase) String() string {
	if p == PhaseCapitalized {
		return "capitalized"
	}
	return "any-case"
}

// Matcher is the pre-judgment relevance filter for one brand. It is pure
// and safe for concurrent use once constructed.
type Matcher struct {
	term            string
	termLower       string
	contextKeywords []string
	ambiguous       bool
	properWordRe    *regexp.Regexp
	anyCaseWordRe   *regexp.Regexp
}

func NewMatcher(config *brand.Config) *Matcher {
	term := config.Term()

	// The configured term carries the brand's proper capitalization
	// ("HubSpot", "eBay"). Only an all-lowercase term gets title-cased.
	properForm := term
	if term == strings.ToLower(term) {
		properForm = cases.Title(language.English).String(term)
	}

	keywords := make([]string, 0, len(config.Matching.ContextKeywords))
	for _, kw := range config.Matching.ContextKeywords {
		keywords = append(keywords, strings.ToLower(kw))
	}

	return &Matcher{
		term:            term,
		termLower:       strings.ToLower(term),
		contextKeywords: keywords,
		ambiguous:       config.Matching.Ambiguous,
		properWordRe:    regexp.MustCompile(`\b` + regexp.QuoteMeta(properForm) + `\b`),
		anyCaseWordRe:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
	}
}

// Phases returns the escalation sequence for this brand: ambiguous brands
// with a capitalization requirement search strictly first and relax only
// if the quota is not filled.
func (m *Matcher) Phases(config *brand.Config) []Phase {
	if m.ambiguous && config.Matching.RequireCapitalized {
		return []Phase{PhaseCapitalized, PhaseAnyCase}
	}
	return []Phase{PhaseAnyCase}
}

// Match reports whether text is a true-positive mention of the brand
// under the given phase.
func (m *Matcher) Match(text string, phase Phase) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)
	if !strings.Contains(lower, m.termLower) {
		return false
	}

	if !m.ambiguous {
		return true
	}

	if !m.hasContextKeyword(lower) {
		return false
	}

	if phase == PhaseCapitalized {
		return m.properWordRe.MatchString(text)
	}
	return m.anyCaseWordRe.MatchString(text)
}

func (m *Matcher) hasContextKeyword(lowerText string) bool {
	for _, kw := range m.contextKeywords {
		if strings.Contains(lowerText, kw) {
			return true
		}
	}
	return false
}
