package tasks

import (
	"context"
	"log/slog"

	"github.com/novikoff/brandpulse/app/brand"
)

type RefreshBrandTask struct {
	Task
	BrandConfig *brand.Config
	runner      *Runner
}

func NewRefreshBrandTask(brandName string, brandConfig *brand.Config, runner *Runner) *RefreshBrandTask {
	return &RefreshBrandTask{
		Task:        NewTask(TaskTypeRefreshBrand, brandName),
		BrandConfig: brandConfig,
		runner:      runner,
	}
}

func (t *RefreshBrandTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.BrandConfig.Settings.Enabled {
		slog.Debug("Brand disabled, skipping", "brand", t.BrandName)
		return nil
	}

	report, err := t.runner.RefreshBrand(ctx, t.BrandConfig)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "RefreshBrand",
		"brand", t.BrandName,
		"duration", t.GetDuration(),
		"total_posts", report.TotalPosts,
		"categories", len(report.CategoryDistribution))

	return nil
}
