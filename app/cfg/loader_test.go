package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		BrandsDir:         "./brands",
		DBPath:            "./test.db",
		Port:              "8080",
		WorkerCount:       3,
		SchedulerInterval: 60,
		APIAccessKey:      "test-key",
		DefaultLimit:      30,
		JudgeEndpoint:     "https://api.openai.com/v1/chat/completions",
		JudgeModel:        "gpt-4o-mini",
		JudgeConcurrency:  4,
		JudgeTimeout:      120,
		UserAgent:         "Test Agent",
		Timezone:          "UTC",
		Debug:             true,
		Version:           "test-version",
	}

	if cfg.BrandsDir != "./brands" {
		t.Errorf("Expected brands dir './brands', got '%s'", cfg.BrandsDir)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
	if cfg.DefaultLimit != 30 {
		t.Errorf("Expected default limit 30, got %d", cfg.DefaultLimit)
	}
	if cfg.JudgeModel != "gpt-4o-mini" {
		t.Errorf("Expected judge model 'gpt-4o-mini', got '%s'", cfg.JudgeModel)
	}
	if cfg.JudgeConcurrency != 4 {
		t.Errorf("Expected judge concurrency 4, got %d", cfg.JudgeConcurrency)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
