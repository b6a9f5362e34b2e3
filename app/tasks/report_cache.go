package tasks

import (
	"sync"
	"time"

	"github.com/novikoff/brandpulse/app/ranking"
)

// ReportCache holds the last successfully computed report per brand. A
// brand's entry is replaced only when a refresh succeeds, so a failed run
// never clobbers a prior good report.
type ReportCache struct {
	mu          sync.RWMutex
	reports     map[string]ranking.BrandReport
	lastRunID   string
	lastUpdated time.Time
}

func NewReportCache() *ReportCache {
	return &ReportCache{
		reports: make(map[string]ranking.BrandReport),
	}
}

func (c *ReportCache) Update(brandName string, report ranking.BrandReport, runID string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports[brandName] = report
	if at.After(c.lastUpdated) {
		c.lastUpdated = at
		c.lastRunID = runID
	}
}

// Snapshot assembles the cached per-brand reports in the given brand
// order, skipping brands without data. ok is false when nothing has been
// computed yet.
func (c *ReportCache) Snapshot(order []string) (ranking.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	brands := make([]ranking.BrandReport, 0, len(order))
	for _, name := range order {
		if report, found := c.reports[name]; found {
			brands = append(brands, report)
		}
	}

	if len(brands) == 0 {
		return ranking.Report{}, false
	}

	return ranking.Assemble(c.lastRunID, c.lastUpdated, brands), true
}

func (c *ReportCache) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}
