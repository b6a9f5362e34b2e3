package database

import (
	"fmt"
)

type SQLItemRepository struct {
	db *DB
}

var _ ItemRepository = (*SQLItemRepository)(nil)

func NewItemRepository(db *DB) *SQLItemRepository {
	return &SQLItemRepository{db: db}
}

// InsertItems stores a run's relevant items, one row per item.
func (r *SQLItemRepository) InsertItems(items []Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO items (
			run_id, brand, source, source_id, ingest_type,
			title, body, url, permalink, author, community, created_at,
			engagement_count, comment_count, quality_ratio,
			subject, sentiment, sentiment_score, confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.Exec(
			item.RunID, item.Brand, item.Source, item.SourceID, item.IngestType,
			item.Title, item.Body, item.URL, item.Permalink, item.Author, item.Community, item.CreatedAt.UTC(),
			item.EngagementCount, item.CommentCount, item.QualityRatio,
			item.Subject, item.Sentiment, item.SentimentScore, item.Confidence,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.SourceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}
	return nil
}

func (r *SQLItemRepository) GetItemCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func (r *SQLItemRepository) GetBrandItemCount(brand string) (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM items WHERE brand = ?`, brand).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count brand items: %w", err)
	}
	return count, nil
}
