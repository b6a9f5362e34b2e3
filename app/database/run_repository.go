package database

import (
	"database/sql"
	"fmt"
	"time"
)

type SQLRunRepository struct {
	db *DB
}

var _ RunRepository = (*SQLRunRepository)(nil)

func NewRunRepository(db *DB) *SQLRunRepository {
	return &SQLRunRepository{db: db}
}

func (r *SQLRunRepository) CreateRun(id, brand string, startedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (id, brand, started_at, status)
		VALUES (?, ?, ?, 'running')
	`, id, brand, startedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (r *SQLRunRepository) CompleteRun(id string, completedAt time.Time, status, errMsg string) error {
	_, err := r.db.Exec(`
		UPDATE runs
		SET completed_at = ?, status = ?, error = ?
		WHERE id = ?
	`, completedAt.UTC(), status, errMsg, id)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

func (r *SQLRunRepository) GetLastCompletedAt(brand string) (*time.Time, error) {
	var completedAt time.Time
	err := r.db.QueryRow(`
		SELECT completed_at FROM runs
		WHERE brand = ? AND status = 'success' AND completed_at IS NOT NULL
		ORDER BY completed_at DESC
		LIMIT 1
	`, brand).Scan(&completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last completed run: %w", err)
	}
	return &completedAt, nil
}

// HasActiveRun reports whether a run for the brand started after since
// and has not completed. The since bound keeps runs orphaned by a crash
// from blocking the brand forever.
func (r *SQLRunRepository) HasActiveRun(brand string, since time.Time) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM runs
		WHERE brand = ? AND status = 'running' AND started_at > ?
	`, brand, since.UTC()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check active runs: %w", err)
	}
	return count > 0, nil
}

func (r *SQLRunRepository) GetRunCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
