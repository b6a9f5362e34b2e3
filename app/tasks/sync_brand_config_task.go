package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/novikoff/brandpulse/app/brand"
)

// SyncBrandConfigTask re-reads a brand's YAML file from disk so config
// edits are picked up without a restart.
type SyncBrandConfigTask struct {
	Task
	configCache *brand.ConfigCache
}

func NewSyncBrandConfigTask(brandName string, configCache *brand.ConfigCache) *SyncBrandConfigTask {
	return &SyncBrandConfigTask{
		Task:        NewTask(TaskTypeSyncBrandConfig, brandName),
		configCache: configCache,
	}
}

func (t *SyncBrandConfigTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	config, err := t.configCache.LoadConfig(t.BrandName)
	if err != nil {
		slog.Error("Task failed", "type", "SyncBrandConfig", "brand", t.BrandName, "error", err)
		return fmt.Errorf("failed to reload brand config: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncBrandConfig",
		"brand", t.BrandName,
		"enabled", config.Settings.Enabled,
		"duration", t.GetDuration())

	return nil
}
