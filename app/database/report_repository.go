package database

import (
	"database/sql"
	"fmt"
	"time"
)

type SQLReportRepository struct {
	db *DB
}

var _ ReportRepository = (*SQLReportRepository)(nil)

func NewReportRepository(db *DB) *SQLReportRepository {
	return &SQLReportRepository{db: db}
}

func (r *SQLReportRepository) SaveReport(runID, brand, document string, createdAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO reports (run_id, brand, document, created_at)
		VALUES (?, ?, ?, ?)
	`, runID, brand, document, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetLatestReport returns the newest stored report document for a brand,
// or nil when none exists.
func (r *SQLReportRepository) GetLatestReport(brand string) (*ReportDocument, error) {
	var doc ReportDocument
	err := r.db.QueryRow(`
		SELECT brand, document, created_at FROM reports
		WHERE brand = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, brand).Scan(&doc.Brand, &doc.Document, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	return &doc, nil
}

func (r *SQLReportRepository) GetReportCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}
