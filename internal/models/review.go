package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/callouts/internal/shared"
)

// MinEase is the floor applied to an entry's ease factor.
const MinEase = 1.3

// Review is one graded attempt at recalling an entry.
type Review struct {
	id         string
	entryID    string
	grade      int
	ease       float64
	interval   int
	reviewedAt time.Time
}

// NewReview creates a review of entryID with the schedule it produced.
func NewReview(entryID string, grade int, ease float64, interval int, reviewedAt time.Time) *Review {
	return &Review{
		entryID:    entryID,
		grade:      grade,
		ease:       ease,
		interval:   interval,
		reviewedAt: reviewedAt,
	}
}

func (r *Review) ID() string            { return r.id }
func (r *Review) EntryID() string       { return r.entryID }
func (r *Review) Grade() int            { return r.grade }
func (r *Review) Ease() float64         { return r.ease }
func (r *Review) Interval() int         { return r.interval }
func (r *Review) ReviewedAt() time.Time { return r.reviewedAt }
func (r *Review) CreatedAt() time.Time  { return r.reviewedAt }
func (r *Review) UpdatedAt() time.Time  { return r.reviewedAt }
func (r *Review) SetID(id string)       { r.id = id }

func (r *Review) Validate() error {
	if r.entryID == "" {
		return fmt.Errorf("%w: review entry id is required", shared.ErrInvalidInput)
	}
	if r.grade < 0 || r.grade > 5 {
		return fmt.Errorf("%w: %d", shared.ErrInvalidGrade, r.grade)
	}
	return nil
}
