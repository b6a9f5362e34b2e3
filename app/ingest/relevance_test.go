package ingest

import (
	"testing"

	"github.com/novikoff/brandpulse/app/brand"
)

func ambiguousConfig() *brand.Config {
	return &brand.Config{
		Name:        "realize",
		DisplayName: "Realize",
		Matching: brand.ConfigMatching{
			Ambiguous:          true,
			RequireCapitalized: true,
			ContextKeywords:    []string{"platform", "advertising", "campaign"},
		},
	}
}

func unambiguousConfig() *brand.Config {
	return &brand.Config{
		Name:        "taboola",
		DisplayName: "Taboola",
	}
}

func TestMatcherUnambiguousSubstring(t *testing.T) {
	matcher := NewMatcher(unambiguousConfig())

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"exact mention", "I tried Taboola last week", true},
		{"lowercase mention", "taboola ads are everywhere", true},
		{"embedded mention", "the taboolafeed widget", true},
		{"no mention", "some unrelated text", false},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matcher.Match(tt.text, PhaseAnyCase); got != tt.expected {
				t.Errorf("Match(%q) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestMatcherAmbiguousCapitalizedPhase(t *testing.T) {
	matcher := NewMatcher(ambiguousConfig())

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"capitalized with keyword", "The Realize platform looks promising", true},
		{"lowercase with keyword", "did you realize the platform changed", false},
		{"capitalized without keyword", "Realize your dreams", false},
		{"no mention at all", "great advertising platform", false},
		{"embedded word with keyword", "Realized gains on the platform", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matcher.Match(tt.text, PhaseCapitalized); got != tt.expected {
				t.Errorf("Match(%q, capitalized) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestMatcherAmbiguousAnyCasePhase(t *testing.T) {
	matcher := NewMatcher(ambiguousConfig())

	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"lowercase with keyword", "did you realize the campaign ended", true},
		{"capitalized with keyword", "Realize campaign reporting is solid", true},
		{"lowercase without keyword", "I didn't realize that", false},
		{"embedded word with keyword", "realized the campaign budget", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matcher.Match(tt.text, PhaseAnyCase); got != tt.expected {
				t.Errorf("Match(%q, any-case) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestMatcherAmbiguousMixedCaseBrand(t *testing.T) {
	config := &brand.Config{
		Name:        "hubspot",
		DisplayName: "HubSpot",
		Matching: brand.ConfigMatching{
			Ambiguous:          true,
			RequireCapitalized: true,
			ContextKeywords:    []string{"marketing", "crm"},
		},
	}
	matcher := NewMatcher(config)

	tests := []struct {
		name     string
		text     string
		phase    Phase
		expected bool
	}{
		{"proper name with keyword", "HubSpot marketing automation review", PhaseCapitalized, true},
		{"title-cased form with keyword", "Hubspot marketing tips", PhaseCapitalized, false},
		{"lowercase with keyword", "hubspot crm pricing", PhaseCapitalized, false},
		{"lowercase with keyword relaxed", "hubspot crm pricing", PhaseAnyCase, true},
		{"proper name without keyword", "HubSpot office photos", PhaseCapitalized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matcher.Match(tt.text, tt.phase); got != tt.expected {
				t.Errorf("Match(%q, %s) = %v, expected %v", tt.text, tt.phase, got, tt.expected)
			}
		})
	}
}

func TestMatcherLowercaseTermGetsTitleCased(t *testing.T) {
	config := &brand.Config{
		Name: "realize",
		Matching: brand.ConfigMatching{
			Ambiguous:          true,
			RequireCapitalized: true,
			ContextKeywords:    []string{"platform"},
		},
	}
	matcher := NewMatcher(config)

	if !matcher.Match("The Realize platform looks promising", PhaseCapitalized) {
		t.Error("Expected title-cased form to match for an all-lowercase term")
	}
	if matcher.Match("did you realize the platform changed", PhaseCapitalized) {
		t.Error("Expected lowercase mention rejected in the capitalized phase")
	}
}

func TestMatcherPhases(t *testing.T) {
	ambiguous := NewMatcher(ambiguousConfig())
	phases := ambiguous.Phases(ambiguousConfig())
	if len(phases) != 2 || phases[0] != PhaseCapitalized || phases[1] != PhaseAnyCase {
		t.Errorf("Expected capitalized then any-case for ambiguous brand, got %v", phases)
	}

	plain := NewMatcher(unambiguousConfig())
	phases = plain.Phases(unambiguousConfig())
	if len(phases) != 1 || phases[0] != PhaseAnyCase {
		t.Errorf("Expected single any-case phase for unambiguous brand, got %v", phases)
	}
}
