package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

const entryColumns = `id, sequence, header, title, description, footer, ease, interval_days, repetitions,
	due_at, last_reviewed_at, created_at, updated_at, deleted_at`

// scanner is satisfied by [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// EntryRepository implements models.Repository[*models.Entry] for the study deck.
//
// Times are stored in UTC so due comparisons can be done in SQL.
type EntryRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Entry] = (*EntryRepository)(nil)

// NewEntryRepository creates a new EntryRepository with the given database connection
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts a new [models.Entry] with a generated ID and sequence
func (r *EntryRepository) Create(entry *models.Entry) error {
	entry.SetID(shared.GenerateID())
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "entries")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	entry.SetSequence(sequence)

	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		entry.ID(),
		sequence,
		entry.Header(),
		entry.Title(),
		entry.Description(),
		entry.Footer(),
		entry.Ease(),
		entry.Interval(),
		entry.Repetitions(),
		entry.DueAt().UTC(),
		utcPtr(entry.ReviewedAt()),
		entry.CreatedAt().UTC(),
		entry.UpdatedAt().UTC(),
		nullTime(nil),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	return nil
}

// Get retrieves an entry by ID, excluding soft-deleted entries
func (r *EntryRepository) Get(id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = ? AND deleted_at IS NULL`
	entry, err := scanEntry(r.db.QueryRow(query, id))
	if err != nil {
		return nil, notFound(err, shared.ErrEntryNotFound, id)
	}
	return entry, nil
}

// GetBySequence retrieves an entry by its public sequence number
func (r *EntryRepository) GetBySequence(sequence int) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE sequence = ? AND deleted_at IS NULL`
	entry, err := scanEntry(r.db.QueryRow(query, sequence))
	if err != nil {
		return nil, notFound(err, shared.ErrEntryNotFound, fmt.Sprintf("#%d", sequence))
	}
	return entry, nil
}

// Update writes the entry's content and schedule
func (r *EntryRepository) Update(entry *models.Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	entry.SetUpdatedAt(now)

	query := `
		UPDATE entries
		SET header = ?, title = ?, description = ?, footer = ?, ease = ?, interval_days = ?, repetitions = ?,
			due_at = ?, last_reviewed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		entry.Header(),
		entry.Title(),
		entry.Description(),
		entry.Footer(),
		entry.Ease(),
		entry.Interval(),
		entry.Repetitions(),
		entry.DueAt().UTC(),
		utcPtr(entry.ReviewedAt()),
		now,
		entry.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	return checkAffected(result, shared.ErrEntryNotFound, entry.ID())
}

// Delete soft-deletes an entry by ID
func (r *EntryRepository) Delete(id string) error {
	query := `UPDATE entries SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	return checkAffected(result, shared.ErrEntryNotFound, id)
}

// List retrieves entries ordered by sequence, excluding soft-deleted entries.
//
// Supported criteria: "due_before" (time.Time) and "limit" (int).
func (r *EntryRepository) List(criteria map[string]any) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE deleted_at IS NULL`
	args := []any{}
	order := " ORDER BY sequence ASC"

	if before, ok := criteria["due_before"].(time.Time); ok {
		query += " AND due_at <= ?"
		args = append(args, before.UTC())
		order = " ORDER BY due_at ASC, sequence ASC"
	}

	query += order

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Due retrieves entries whose due time is at or before now, earliest first
func (r *EntryRepository) Due(now time.Time, limit int) ([]*models.Entry, error) {
	return r.List(map[string]any{"due_before": now, "limit": limit})
}

func scanEntry(s scanner) (*models.Entry, error) {
	var (
		id, header, title, description, footer string
		sequence, interval, repetitions        int
		ease                                   float64
		dueAt, createdAt, updatedAt            time.Time
		reviewedAt, deletedAt                  sql.NullTime
	)

	err := s.Scan(&id, &sequence, &header, &title, &description, &footer, &ease, &interval, &repetitions,
		&dueAt, &reviewedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	entry := models.NewEntry(header, title, description, footer)
	entry.SetID(id)
	entry.SetSequence(sequence)
	entry.SetSchedule(ease, interval, repetitions, dueAt)
	entry.SetReviewedAt(timePtr(reviewedAt))
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)
	entry.SetDeletedAt(timePtr(deletedAt))

	return entry, nil
}

func utcPtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	u := t.UTC()
	return nullTime(&u)
}
