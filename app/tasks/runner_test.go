package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/novikoff/brandpulse/app/brand"
	"github.com/novikoff/brandpulse/app/database"
	"github.com/novikoff/brandpulse/app/ingest"
	"github.com/novikoff/brandpulse/app/judge"
	"github.com/novikoff/brandpulse/app/ranking"
)

type fakeIngester struct {
	items []ingest.RawItem
}

func (f *fakeIngester) IngestBrand(_ context.Context, _ *brand.Config) []ingest.RawItem {
	return f.items
}

type fakeJudge struct{}

func (f *fakeJudge) Run(_ context.Context, _ *brand.Config, items []ingest.RawItem) judge.Pools {
	var pools judge.Pools
	for _, item := range items {
		pools.Relevant = append(pools.Relevant, judge.JudgedItem{
			Item: item,
			Judgment: judge.Judgment{
				Relevance: judge.RelevanceYes,
				Subject:   "Pricing",
				Sentiment: judge.SentimentNeutral,
			},
		})
	}
	return pools
}

type fakeRunRepo struct {
	created   []string
	completed map[string]string // run id -> status
	createErr error
}

func (f *fakeRunRepo) CreateRun(id, _ string, _ time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, id)
	return nil
}

func (f *fakeRunRepo) CompleteRun(id string, _ time.Time, status, _ string) error {
	if f.completed == nil {
		f.completed = make(map[string]string)
	}
	f.completed[id] = status
	return nil
}

func (f *fakeRunRepo) GetLastCompletedAt(_ string) (*time.Time, error) { return nil, nil }

func (f *fakeRunRepo) HasActiveRun(_ string, _ time.Time) (bool, error) { return false, nil }

func (f *fakeRunRepo) GetRunCount() (int, error) { return len(f.created), nil }

type fakeItemRepo struct {
	inserted  []database.Item
	insertErr error
}

func (f *fakeItemRepo) InsertItems(items []database.Item) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, items...)
	return nil
}

func (f *fakeItemRepo) GetItemCount() (int, error) { return len(f.inserted), nil }

func (f *fakeItemRepo) GetBrandItemCount(_ string) (int, error) { return 0, nil }

type fakeReportRepo struct {
	saved   map[string]string // brand -> document
	saveErr error
}

func (f *fakeReportRepo) SaveReport(_, brandName, document string, _ time.Time) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = make(map[string]string)
	}
	f.saved[brandName] = document
	return nil
}

func (f *fakeReportRepo) GetLatestReport(_ string) (*database.ReportDocument, error) {
	return nil, nil
}

func (f *fakeReportRepo) GetReportCount() (int, error) { return len(f.saved), nil }

func writeBrandFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write brand file: %v", err)
	}
}

func testConfigCache(t *testing.T, brands ...string) *brand.ConfigCache {
	t.Helper()
	dir := t.TempDir()
	for _, name := range brands {
		writeBrandFile(t, dir, name, `
name: `+name+`
settings:
  enabled: true
sources:
  reddit: true
`)
	}
	cache := brand.NewConfigCache(dir, 30)
	if err := cache.Run(); err != nil {
		t.Fatalf("Failed to load brand configs: %v", err)
	}
	return cache
}

func rawItems(ids ...string) []ingest.RawItem {
	items := make([]ingest.RawItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, ingest.RawItem{
			Source:          ingest.SourceReddit,
			ID:              id,
			Title:           "post " + id,
			EngagementCount: 10,
			CreatedAt:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return items
}

func TestRefreshBrandSuccessUpdatesCache(t *testing.T) {
	configCache := testConfigCache(t, "acme")
	runRepo := &fakeRunRepo{}
	itemRepo := &fakeItemRepo{}
	reportRepo := &fakeReportRepo{}
	cache := NewReportCache()

	runner := NewRunner(configCache, &fakeIngester{items: rawItems("a1", "a2")}, &fakeJudge{},
		runRepo, itemRepo, reportRepo, cache)

	config, _ := configCache.GetConfig("acme")
	report, err := runner.RefreshBrand(context.Background(), config)
	if err != nil {
		t.Fatalf("Expected refresh to succeed, got %v", err)
	}

	if report.Brand != "acme" || report.TotalPosts != 2 {
		t.Errorf("Unexpected report: brand=%s total=%d", report.Brand, report.TotalPosts)
	}

	if len(runRepo.created) != 1 {
		t.Fatalf("Expected 1 run created, got %d", len(runRepo.created))
	}
	if status := runRepo.completed[runRepo.created[0]]; status != "success" {
		t.Errorf("Expected run marked success, got %s", status)
	}
	if len(itemRepo.inserted) != 2 {
		t.Errorf("Expected 2 items persisted, got %d", len(itemRepo.inserted))
	}
	if _, ok := reportRepo.saved["acme"]; !ok {
		t.Error("Expected report document persisted")
	}

	snapshot, ok := cache.Snapshot([]string{"acme"})
	if !ok {
		t.Fatal("Expected cache to hold the new report")
	}
	if len(snapshot.Brands) != 1 || snapshot.Brands[0].TotalPosts != 2 {
		t.Errorf("Unexpected cached snapshot: %+v", snapshot)
	}
}

func TestRefreshBrandFailureLeavesCacheUntouched(t *testing.T) {
	configCache := testConfigCache(t, "acme")
	runRepo := &fakeRunRepo{}
	itemRepo := &fakeItemRepo{insertErr: errors.New("disk full")}
	reportRepo := &fakeReportRepo{}
	cache := NewReportCache()

	// Seed the cache with a prior good report.
	previous := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cache.Update("acme", ranking.BrandReport{Brand: "acme", TotalPosts: 7}, "prior-run", previous)

	runner := NewRunner(configCache, &fakeIngester{items: rawItems("a1")}, &fakeJudge{},
		runRepo, itemRepo, reportRepo, cache)

	config, _ := configCache.GetConfig("acme")
	if _, err := runner.RefreshBrand(context.Background(), config); err == nil {
		t.Fatal("Expected refresh to fail")
	}

	if status := runRepo.completed[runRepo.created[0]]; status != "failed" {
		t.Errorf("Expected run marked failed, got %s", status)
	}

	snapshot, ok := cache.Snapshot([]string{"acme"})
	if !ok {
		t.Fatal("Expected prior report to survive the failed refresh")
	}
	if snapshot.Brands[0].TotalPosts != 7 {
		t.Errorf("Expected prior report preserved, got total=%d", snapshot.Brands[0].TotalPosts)
	}
	if !snapshot.GeneratedAt.Equal(previous) {
		t.Errorf("Expected prior timestamp preserved, got %v", snapshot.GeneratedAt)
	}
}

func TestRefreshAllPreservesBrandOrder(t *testing.T) {
	configCache := testConfigCache(t, "alpha", "beta", "gamma")
	runner := NewRunner(configCache, &fakeIngester{items: rawItems("x")}, &fakeJudge{},
		&fakeRunRepo{}, &fakeItemRepo{}, &fakeReportRepo{}, NewReportCache())

	report, err := runner.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("Expected refresh to succeed, got %v", err)
	}

	if len(report.Brands) != 3 {
		t.Fatalf("Expected 3 brand reports, got %d", len(report.Brands))
	}
	expected := []string{"alpha", "beta", "gamma"}
	for i, name := range expected {
		if report.Brands[i].Brand != name {
			t.Errorf("Expected brand %s at position %d, got %s", name, i, report.Brands[i].Brand)
		}
	}
	if report.RunID == "" {
		t.Error("Expected a run id on the combined report")
	}
}

func TestRefreshAllNoBrands(t *testing.T) {
	configCache := testConfigCache(t)
	runner := NewRunner(configCache, &fakeIngester{}, &fakeJudge{},
		&fakeRunRepo{}, &fakeItemRepo{}, &fakeReportRepo{}, NewReportCache())

	if _, err := runner.RefreshAll(context.Background()); err == nil {
		t.Error("Expected an error when no brands are enabled")
	}
}

func TestRefreshBrandEmptyIngest(t *testing.T) {
	configCache := testConfigCache(t, "acme")
	reportRepo := &fakeReportRepo{}
	runner := NewRunner(configCache, &fakeIngester{}, &fakeJudge{},
		&fakeRunRepo{}, &fakeItemRepo{}, reportRepo, NewReportCache())

	config, _ := configCache.GetConfig("acme")
	report, err := runner.RefreshBrand(context.Background(), config)
	if err != nil {
		t.Fatalf("Expected empty ingest to succeed, got %v", err)
	}
	if report.TotalPosts != 0 {
		t.Errorf("Expected empty report, got %d posts", report.TotalPosts)
	}
	if _, ok := reportRepo.saved["acme"]; !ok {
		t.Error("Expected empty report still persisted")
	}
}
