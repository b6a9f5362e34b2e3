package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/novikoff/brandpulse/app/brand"
	"github.com/novikoff/brandpulse/app/database"
	"github.com/novikoff/brandpulse/app/ingest"
	"github.com/novikoff/brandpulse/app/judge"
	"github.com/novikoff/brandpulse/app/ranking"
)

// Ingester collects raw items for one brand.
type Ingester interface {
	IngestBrand(ctx context.Context, config *brand.Config) []ingest.RawItem
}

// BatchJudge judges a batch of items and partitions them into pools.
type BatchJudge interface {
	Run(ctx context.Context, config *brand.Config, items []ingest.RawItem) judge.Pools
}

// Runner executes the full pipeline for a brand: ingest, judge, rank,
// persist, publish to the report cache.
type Runner struct {
	configCache *brand.ConfigCache
	ingester    Ingester
	judger      BatchJudge
	runRepo     database.RunRepository
	itemRepo    database.ItemRepository
	reportRepo  database.ReportRepository
	cache       *ReportCache
}

func NewRunner(configCache *brand.ConfigCache, ingester Ingester, judger BatchJudge,
	runRepo database.RunRepository, itemRepo database.ItemRepository,
	reportRepo database.ReportRepository, cache *ReportCache) *Runner {
	return &Runner{
		configCache: configCache,
		ingester:    ingester,
		judger:      judger,
		runRepo:     runRepo,
		itemRepo:    itemRepo,
		reportRepo:  reportRepo,
		cache:       cache,
	}
}

func (r *Runner) Cache() *ReportCache {
	return r.cache
}

// RefreshBrand runs the pipeline for one brand. The report cache is only
// updated when the whole run succeeds.
func (r *Runner) RefreshBrand(ctx context.Context, config *brand.Config) (ranking.BrandReport, error) {
	runID := uuid.NewString()
	startedAt := time.Now().UTC()

	if err := r.runRepo.CreateRun(runID, config.Name, startedAt); err != nil {
		return ranking.BrandReport{}, fmt.Errorf("failed to create run: %w", err)
	}

	report, err := r.refreshBrand(ctx, runID, config)
	completedAt := time.Now().UTC()

	if err != nil {
		if completeErr := r.runRepo.CompleteRun(runID, completedAt, "failed", err.Error()); completeErr != nil {
			slog.Error("Failed to mark run as failed", "run_id", runID, "brand", config.Name, "error", completeErr)
		}
		return ranking.BrandReport{}, err
	}

	if err := r.runRepo.CompleteRun(runID, completedAt, "success", ""); err != nil {
		slog.Error("Failed to mark run as successful", "run_id", runID, "brand", config.Name, "error", err)
	}

	r.cache.Update(config.Name, report, runID, completedAt)

	return report, nil
}

// RefreshAll runs the pipeline for every enabled brand in configuration
// order and assembles the combined report. Any brand failure fails the
// whole run; already-cached reports stay untouched for failed brands.
func (r *Runner) RefreshAll(ctx context.Context) (ranking.Report, error) {
	configs := r.configCache.GetEnabledConfigs()
	if len(configs) == 0 {
		return ranking.Report{}, fmt.Errorf("no enabled brands configured")
	}

	brands := make([]ranking.BrandReport, 0, len(configs))
	for _, config := range configs {
		report, err := r.RefreshBrand(ctx, config)
		if err != nil {
			return ranking.Report{}, fmt.Errorf("refresh failed for brand %s: %w", config.Name, err)
		}
		brands = append(brands, report)
	}

	return ranking.Assemble(uuid.NewString(), time.Now().UTC(), brands), nil
}

func (r *Runner) refreshBrand(ctx context.Context, runID string, config *brand.Config) (ranking.BrandReport, error) {
	items := r.ingester.IngestBrand(ctx, config)

	pools := r.judger.Run(ctx, config, items)

	report := ranking.Rank(config.Name, pools.Relevant)

	if err := r.itemRepo.InsertItems(toDatabaseItems(runID, config.Name, pools.Relevant)); err != nil {
		return ranking.BrandReport{}, fmt.Errorf("failed to persist items: %w", err)
	}

	document, err := json.Marshal(report)
	if err != nil {
		return ranking.BrandReport{}, fmt.Errorf("failed to serialize report: %w", err)
	}
	if err := r.reportRepo.SaveReport(runID, config.Name, string(document), time.Now().UTC()); err != nil {
		return ranking.BrandReport{}, fmt.Errorf("failed to persist report: %w", err)
	}

	return report, nil
}

func toDatabaseItems(runID, brandName string, items []judge.JudgedItem) []database.Item {
	dbItems := make([]database.Item, 0, len(items))
	for _, judged := range items {
		dbItems = append(dbItems, database.Item{
			RunID:           runID,
			Brand:           brandName,
			Source:          string(judged.Item.Source),
			SourceID:        judged.Item.ID,
			IngestType:      judged.Item.IngestType,
			Title:           judged.Item.Title,
			Body:            judged.Item.Body,
			URL:             judged.Item.URL,
			Permalink:       judged.Item.Permalink,
			Author:          judged.Item.Author,
			Community:       judged.Item.Community,
			CreatedAt:       judged.Item.CreatedAt,
			EngagementCount: judged.Item.EngagementCount,
			CommentCount:    judged.Item.CommentCount,
			QualityRatio:    judged.Item.QualityRatio,
			Subject:         judged.Judgment.Subject,
			Sentiment:       string(judged.Judgment.Sentiment),
			SentimentScore:  judged.Judgment.SentimentScore,
			Confidence:      judged.Judgment.Confidence,
		})
	}
	return dbItems
}
