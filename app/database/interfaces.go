package database

import (
	"time"
)

type RunRepository interface {
	CreateRun(id, brand string, startedAt time.Time) error
	CompleteRun(id string, completedAt time.Time, status, errMsg string) error
	GetLastCompletedAt(brand string) (*time.Time, error)
	HasActiveRun(brand string, since time.Time) (bool, error)
	GetRunCount() (int, error)
}

type ItemRepository interface {
	InsertItems(items []Item) error
	GetItemCount() (int, error)
	GetBrandItemCount(brand string) (int, error)
}

type ReportRepository interface {
	SaveReport(runID, brand, document string, createdAt time.Time) error
	GetLatestReport(brand string) (*ReportDocument, error)
	GetReportCount() (int, error)
}
