package api

import (
	"time"

	"github.com/novikoff/brandpulse/app/brand"
	"github.com/novikoff/brandpulse/app/database"
	"github.com/novikoff/brandpulse/app/ranking"
	"github.com/novikoff/brandpulse/app/tasks"
)

type Handler struct {
	configCache *brand.ConfigCache
	runner      *tasks.Runner
	runRepo     database.RunRepository
	itemRepo    database.ItemRepository
	reportRepo  database.ReportRepository
}

// RankingsResponse is the envelope for both report endpoints: an
// explicit success flag, the report (or null), and the last update time.
type RankingsResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message,omitempty"`
	Data        *ranking.Report `json:"data"`
	LastUpdated *time.Time      `json:"last_updated"`
}
