package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/callouts/internal/shared"
)

// DefaultEase is the ease factor assigned to a new entry.
const DefaultEase = 2.5

// Entry is a study card.
//
// The sequence number doubles as the public entry id in /study/{entry_id} URLs.
type Entry struct {
	id          string
	sequence    int
	header      string
	title       string
	description string
	footer      string

	ease        float64
	interval    int
	repetitions int
	dueAt       time.Time
	reviewedAt  *time.Time

	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewEntry creates an entry that is due immediately.
func NewEntry(header, title, description, footer string) *Entry {
	now := time.Now().UTC()
	return &Entry{
		header:      header,
		title:       title,
		description: description,
		footer:      footer,
		ease:        DefaultEase,
		dueAt:       now,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (e *Entry) ID() string                { return e.id }
func (e *Entry) Sequence() int             { return e.sequence }
func (e *Entry) Header() string            { return e.header }
func (e *Entry) Title() string             { return e.title }
func (e *Entry) Description() string       { return e.description }
func (e *Entry) Footer() string            { return e.footer }
func (e *Entry) Ease() float64             { return e.ease }
func (e *Entry) Interval() int             { return e.interval }
func (e *Entry) Repetitions() int          { return e.repetitions }
func (e *Entry) DueAt() time.Time          { return e.dueAt }
func (e *Entry) ReviewedAt() *time.Time    { return e.reviewedAt }
func (e *Entry) CreatedAt() time.Time      { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time      { return e.updatedAt }
func (e *Entry) DeletedAt() *time.Time     { return e.deletedAt }
func (e *Entry) SetID(id string)           { e.id = id }
func (e *Entry) SetSequence(seq int)       { e.sequence = seq }
func (e *Entry) SetUpdatedAt(t time.Time)  { e.updatedAt = t }
func (e *Entry) SetCreatedAt(t time.Time)  { e.createdAt = t }
func (e *Entry) SetDeletedAt(t *time.Time) { e.deletedAt = t }

// SetContent replaces the card text.
func (e *Entry) SetContent(header, title, description, footer string) {
	e.header, e.title, e.description, e.footer = header, title, description, footer
}

// SetSchedule records the scheduling state produced by a review.
func (e *Entry) SetSchedule(ease float64, interval, repetitions int, due time.Time) {
	e.ease = ease
	e.interval = interval
	e.repetitions = repetitions
	e.dueAt = due
}

// SetReviewedAt records when the entry was last reviewed.
func (e *Entry) SetReviewedAt(t *time.Time) { e.reviewedAt = t }

// IsDue reports whether the entry should be studied at now.
func (e *Entry) IsDue(now time.Time) bool {
	return !e.dueAt.After(now)
}

// Learned reports whether the entry has at least one passing review in its current streak.
func (e *Entry) Learned() bool {
	return e.repetitions > 0
}

// Validate checks that the entry has a title and a sane schedule.
func (e *Entry) Validate() error {
	if e.id == "" {
		return fmt.Errorf("%w: entry id is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(e.title) == "" {
		return fmt.Errorf("%w: entry title is required", shared.ErrInvalidInput)
	}
	if e.ease < MinEase {
		return fmt.Errorf("%w: ease %.2f below %.2f", shared.ErrInvalidInput, e.ease, MinEase)
	}
	if e.interval < 0 || e.repetitions < 0 {
		return fmt.Errorf("%w: negative schedule", shared.ErrInvalidInput)
	}
	return nil
}

// Data returns the template fields of the card.
func (e *Entry) Data() map[string]string {
	return map[string]string{
		"item_header":      e.header,
		"item_title":       e.title,
		"item_description": e.description,
		"item_footer":      e.footer,
	}
}
