package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	BrandsDir         string `long:"brands-dir" env:"BRANDS_DIR" default:"./brands" description:"Directory containing brand configuration files"`
	DBPath            string `long:"db-path" env:"DB_PATH" default:"./brandpulse.db" description:"Path to the SQLite database file"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for brand refresh tasks"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for mutating endpoints (optional)"`
	DefaultLimit      int    `long:"default-limit" env:"DEFAULT_LIMIT" default:"30" description:"Default per-brand item limit"`

	// Judgment provider configuration
	JudgeEndpoint    string `long:"judge-endpoint" env:"JUDGE_ENDPOINT" default:"https://api.openai.com/v1/chat/completions" description:"OpenAI-compatible chat completions endpoint"`
	JudgeModel       string `long:"judge-model" env:"JUDGE_MODEL" default:"gpt-4o-mini" description:"Model used for relevance judgment"`
	JudgeAPIKey      string `long:"judge-api-key" env:"OPENAI_API_KEY" description:"API key for the judgment provider"`
	JudgeConcurrency int    `long:"judge-concurrency" env:"JUDGE_CONCURRENCY" default:"4" description:"Maximum concurrent judgment provider calls"`
	JudgeTimeout     int    `long:"judge-timeout" env:"JUDGE_TIMEOUT" default:"120" description:"Run-level judgment timeout in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"BrandPulse/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		BrandsDir:         raw.BrandsDir,
		DBPath:            raw.DBPath,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		DefaultLimit:      raw.DefaultLimit,
		JudgeEndpoint:     raw.JudgeEndpoint,
		JudgeModel:        raw.JudgeModel,
		JudgeAPIKey:       raw.JudgeAPIKey,
		JudgeConcurrency:  raw.JudgeConcurrency,
		JudgeTimeout:      raw.JudgeTimeout,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
