package brand

import (
	"time"
)

// Config describes one monitored brand, loaded from a YAML file in the
// brands directory. Name is derived from the filename (without .yml
// extension) and used as the brand key everywhere else.
type Config struct {
	Name        string         `yaml:"-"` // Derived from filename (without .yml extension)
	DisplayName string         `yaml:"name"`
	Description string         `yaml:"description"` // Company context passed to the judgment provider
	Settings    ConfigSettings `yaml:"settings"`
	Matching    ConfigMatching `yaml:"matching"`
	Sources     ConfigSources  `yaml:"sources"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	Limit           int  `yaml:"limit"`            // per-brand item cap
	MinYear         int  `yaml:"min_year"`         // items created before Jan 1 of this year are discarded
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	Timeout         int  `yaml:"timeout"`          // seconds, per sub-source fetch
	ExtractContent  bool `yaml:"extract_content"`  // extract article text for news items with empty bodies
}

// ConfigMatching controls the pre-judgment relevance filter. Ambiguous
// brand names (those colliding with common words) additionally require a
// whole-word match plus one of the context keywords.
type ConfigMatching struct {
	Ambiguous          bool     `yaml:"ambiguous"`
	RequireCapitalized bool     `yaml:"require_capitalized"`
	ContextKeywords    []string `yaml:"context_keywords"`
}

type ConfigSources struct {
	Reddit         bool     `yaml:"reddit"`
	HackerNews     bool     `yaml:"hackernews"`
	News           bool     `yaml:"news"`
	Subreddits     []string `yaml:"subreddits"`
	SortStrategies []string `yaml:"sort_strategies"`
}

// Term is the text searched for across sources: the display name when
// set, otherwise the config name.
func (c *Config) Term() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// Cutoff returns the minimum creation instant for ingested items.
func (c *Config) Cutoff() time.Time {
	return time.Date(c.Settings.MinYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}
