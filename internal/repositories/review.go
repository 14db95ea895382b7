package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

// ReviewRepository stores the review history of entries. Reviews are append-only.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository with the given database connection
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review with a generated ID
func (r *ReviewRepository) Create(review *models.Review) error {
	if err := review.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	review.SetID(shared.GenerateID())

	query := `
		INSERT INTO reviews (id, entry_id, grade, ease, interval_days, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		review.ID(),
		review.EntryID(),
		review.Grade(),
		review.Ease(),
		review.Interval(),
		review.ReviewedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

// ListByEntry returns the reviews of entryID, oldest first
func (r *ReviewRepository) ListByEntry(entryID string) ([]*models.Review, error) {
	query := `
		SELECT id, entry_id, grade, ease, interval_days, reviewed_at
		FROM reviews
		WHERE entry_id = ?
		ORDER BY reviewed_at ASC
	`

	rows, err := r.db.Query(query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var (
			id, entry       string
			grade, interval int
			ease            float64
			reviewedAt      time.Time
		)
		if err := rows.Scan(&id, &entry, &grade, &ease, &interval, &reviewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		review := models.NewReview(entry, grade, ease, interval, reviewedAt)
		review.SetID(id)
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return reviews, nil
}

// CountSince returns how many reviews were recorded at or after since
func (r *ReviewRepository) CountSince(since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM reviews WHERE reviewed_at >= ?", since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
