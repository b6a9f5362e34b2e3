package brand

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var defaultSubreddits = []string{
	"advertising", "marketing", "PPC", "adops", "programmatic",
	"digital_marketing", "adtech", "socialmediamarketing",
	"startups", "technology", "business",
}

var defaultSortStrategies = []string{"new", "hot", "relevance"}

type ConfigCache struct {
	brandsDir    string
	defaultLimit int
	cache        map[string]*Config
	order        []string
	mu           sync.RWMutex
}

func NewConfigCache(brandsDir string, defaultLimit int) *ConfigCache {
	if defaultLimit <= 0 {
		defaultLimit = 30
	}
	return &ConfigCache{
		brandsDir:    brandsDir,
		defaultLimit: defaultLimit,
		cache:        make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.brandsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.brandsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		brandName := strings.TrimSuffix(fileName, ".yml")

		config, err := cc.LoadConfig(brandName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Brand configuration loaded", "brand", brandName, "enabled", config.Settings.Enabled, "ambiguous", config.Matching.Ambiguous, "limit", config.Settings.Limit)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(brandName string) (*Config, error) {
	configFile := cc.getConfigFilePath(brandName)
	brandConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	brandConfig.Name = brandName

	if err := cc.validateConfig(brandConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	if _, ok := cc.cache[brandConfig.Name]; !ok {
		cc.order = append(cc.order, brandConfig.Name)
	}
	cc.cache[brandConfig.Name] = brandConfig

	return brandConfig, nil
}

func (cc *ConfigCache) GetConfig(brandName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	brandConfig, ok := cc.cache[brandName]
	if !ok {
		return nil, fmt.Errorf("brand config with name '%s' not found", brandName)
	}
	return brandConfig, nil
}

// GetConfigs returns all loaded configurations in load order. Load order
// follows the sorted config filenames, so report brand ordering is stable
// across runs.
func (cc *ConfigCache) GetConfigs() []*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configs := make([]*Config, 0, len(cc.order))
	for _, name := range cc.order {
		configs = append(configs, cc.cache[name])
	}
	return configs
}

func (cc *ConfigCache) GetEnabledConfigs() []*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configs := make([]*Config, 0, len(cc.order))
	for _, name := range cc.order {
		if cc.cache[name].Settings.Enabled {
			configs = append(configs, cc.cache[name])
		}
	}
	return configs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) getConfigFilePath(brandName string) string {
	return filepath.Join(cc.brandsDir, brandName+".yml")
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var brandConfig Config
	if err := yaml.Unmarshal(data, &brandConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if brandConfig.Settings.Limit == 0 {
		brandConfig.Settings.Limit = cc.defaultLimit
	}
	if brandConfig.Settings.MinYear == 0 {
		brandConfig.Settings.MinYear = 2020
	}
	if brandConfig.Settings.RefreshInterval == 0 {
		brandConfig.Settings.RefreshInterval = 3600
	}
	if brandConfig.Settings.Timeout == 0 {
		brandConfig.Settings.Timeout = 30
	}
	if len(brandConfig.Sources.Subreddits) == 0 {
		brandConfig.Sources.Subreddits = slices.Clone(defaultSubreddits)
	}
	if len(brandConfig.Sources.SortStrategies) == 0 {
		brandConfig.Sources.SortStrategies = slices.Clone(defaultSortStrategies)
	}

	return &brandConfig, nil
}

func (cc *ConfigCache) validateConfig(brandConfig *Config) error {
	if brandConfig == nil {
		return fmt.Errorf("brandConfig is nil")
	}

	if brandConfig.Name == "" {
		return fmt.Errorf("brand name is required")
	}

	nonNegativeFields := map[string]int{
		"limit":            brandConfig.Settings.Limit,
		"min year":         brandConfig.Settings.MinYear,
		"refresh interval": brandConfig.Settings.RefreshInterval,
		"timeout":          brandConfig.Settings.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if brandConfig.Matching.Ambiguous && len(brandConfig.Matching.ContextKeywords) == 0 {
		return fmt.Errorf("ambiguous brand requires at least one context keyword")
	}

	validStrategies := map[string]bool{"new": true, "hot": true, "relevance": true, "top": true}
	for _, strategy := range brandConfig.Sources.SortStrategies {
		if !validStrategies[strategy] {
			return fmt.Errorf("invalid sort strategy: %s", strategy)
		}
	}

	if !brandConfig.Sources.Reddit && !brandConfig.Sources.HackerNews && !brandConfig.Sources.News {
		return fmt.Errorf("at least one source must be enabled")
	}

	return nil
}
