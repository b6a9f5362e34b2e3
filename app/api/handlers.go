package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novikoff/brandpulse/app/brand"
	"github.com/novikoff/brandpulse/app/database"
	"github.com/novikoff/brandpulse/app/tasks"
)

func NewHandler(configCache *brand.ConfigCache, runner *tasks.Runner,
	runRepo database.RunRepository, itemRepo database.ItemRepository,
	reportRepo database.ReportRepository) *Handler {
	return &Handler{
		configCache: configCache,
		runner:      runner,
		runRepo:     runRepo,
		itemRepo:    itemRepo,
		reportRepo:  reportRepo,
	}
}

// GetRankings serves the last computed report from the cache, or an
// explicit no-data response when nothing has been computed yet.
func (h *Handler) GetRankings(c *gin.Context) {
	order := make([]string, 0)
	for _, config := range h.configCache.GetConfigs() {
		order = append(order, config.Name)
	}

	report, ok := h.runner.Cache().Snapshot(order)
	if !ok {
		c.JSON(http.StatusOK, RankingsResponse{
			Success: false,
			Message: "No data available. Trigger a refresh to fetch new data.",
		})
		return
	}

	lastUpdated := h.runner.Cache().LastUpdated()
	c.JSON(http.StatusOK, RankingsResponse{
		Success:     true,
		Data:        &report,
		LastUpdated: &lastUpdated,
	})
}

// Refresh runs the full pipeline for all enabled brands and returns the
// fresh report. A failed run leaves the cached report untouched.
func (h *Handler) Refresh(c *gin.Context) {
	report, err := h.runner.RefreshAll(c.Request.Context())
	if err != nil {
		slog.Error("Refresh run failed", "error", err)
		c.JSON(http.StatusInternalServerError, RankingsResponse{
			Success: false,
			Message: "Error refreshing data: " + err.Error(),
		})
		return
	}

	lastUpdated := report.GeneratedAt
	c.JSON(http.StatusOK, RankingsResponse{
		Success:     true,
		Message:     "Data refreshed successfully",
		Data:        &report,
		LastUpdated: &lastUpdated,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if runCount, err := h.runRepo.GetRunCount(); err == nil {
		health["runs"] = runCount
	}
	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		health["items"] = itemCount
	}
	if reportCount, err := h.reportRepo.GetReportCount(); err == nil {
		health["reports"] = reportCount
	}

	health["loaded_brands"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

// APIListBrands returns the loaded brand configurations with stored item
// counts.
func (h *Handler) APIListBrands(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	brands := make([]gin.H, 0, len(configs))
	for _, config := range configs {
		entry := gin.H{
			"name":      config.Name,
			"term":      config.Term(),
			"enabled":   config.Settings.Enabled,
			"ambiguous": config.Matching.Ambiguous,
			"limit":     config.Settings.Limit,
			"sources": gin.H{
				"reddit":     config.Sources.Reddit,
				"hackernews": config.Sources.HackerNews,
				"news":       config.Sources.News,
			},
		}

		if count, err := h.itemRepo.GetBrandItemCount(config.Name); err == nil {
			entry["stored_items"] = count
		}
		if lastCompleted, err := h.runRepo.GetLastCompletedAt(config.Name); err == nil && lastCompleted != nil {
			entry["last_refreshed"] = lastCompleted.Format(time.RFC3339)
		}

		brands = append(brands, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  len(brands),
		"brands": brands,
	})
}
