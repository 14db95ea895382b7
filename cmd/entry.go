package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/repositories"
	"github.com/desertthunder/callouts/internal/shared"
	"github.com/desertthunder/callouts/internal/study"
)

// entryJSON is the exported view of an entry.
type entryJSON struct {
	ID          int        `json:"id"`
	Header      string     `json:"header,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Footer      string     `json:"footer,omitempty"`
	Ease        float64    `json:"ease"`
	Interval    int        `json:"interval_days"`
	Repetitions int        `json:"repetitions"`
	DueAt       time.Time  `json:"due_at"`
	ReviewedAt  *time.Time `json:"last_reviewed_at,omitempty"`
}

func toEntryJSON(e *models.Entry) entryJSON {
	return entryJSON{
		ID:          e.Sequence(),
		Header:      e.Header(),
		Title:       e.Title(),
		Description: e.Description(),
		Footer:      e.Footer(),
		Ease:        e.Ease(),
		Interval:    e.Interval(),
		Repetitions: e.Repetitions(),
		DueAt:       e.DueAt(),
		ReviewedAt:  e.ReviewedAt(),
	}
}

func entryIDArg(cmd *cli.Command) (int, error) {
	raw := strings.TrimSpace(cmd.StringArg("id"))
	if raw == "" {
		return 0, fmt.Errorf("%w: entry id is required", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: entry id %q", shared.ErrInvalidArgument, raw)
	}
	return int(id), nil
}

// EntryAdd adds a new entry, due immediately.
func (r *Runner) EntryAdd(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := r.deck(db).Add(cmd.String("header"), title, cmd.String("description"), cmd.String("footer"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ Added #%d %s\n", entry.Sequence(), entry.Title())
}

// EntryList prints the deck, or only the due entries.
func (r *Runner) EntryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	deck := r.deck(db)

	var entries []*models.Entry
	if cmd.Bool("due") {
		entries, err = deck.Due(0)
	} else {
		entries, err = deck.Entries()
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]entryJSON, len(entries))
		for i, e := range entries {
			out[i] = toEntryJSON(e)
		}
		return r.writeJSON(out, true)
	}

	if len(entries) == 0 {
		return r.writePlain("No entries.\n")
	}

	now := time.Now()
	r.writePlainHeader(fmt.Sprintf("Entries (%d)", len(entries)))
	for _, e := range entries {
		due := "due now"
		if !e.IsDue(now) {
			due = "due " + e.DueAt().Local().Format("2006-01-02")
		}
		header := ""
		if e.Header() != "" {
			header = " [" + e.Header() + "]"
		}
		r.writePlain("#%d %s%s, %s\n", e.Sequence(), e.Title(), header, due)
	}

	reviewed, err := repositories.NewReviewRepository(db).CountSince(now.Add(-24 * time.Hour))
	if err != nil {
		r.logger.Warn("failed to count reviews", "error", err)
		return nil
	}
	return r.writePlainln("Reviews in the last 24 hours: %d", reviewed)
}

// EntryShow prints one entry with its review history.
func (r *Runner) EntryShow(ctx context.Context, cmd *cli.Command) error {
	id, err := entryIDArg(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := r.deck(db).Entry(id)
	if err != nil {
		return err
	}

	reviews, err := repositories.NewReviewRepository(db).ListByEntry(entry.ID())
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("#%d %s", entry.Sequence(), entry.Title()))
	if entry.Header() != "" {
		r.writePlain("Header: %s\n", entry.Header())
	}
	if entry.Description() != "" {
		r.writePlain("Description: %s\n", entry.Description())
	}
	if entry.Footer() != "" {
		r.writePlain("Footer: %s\n", entry.Footer())
	}
	r.writePlain("Ease: %.2f  Interval: %d days  Repetitions: %d\n", entry.Ease(), entry.Interval(), entry.Repetitions())
	r.writePlain("Due: %s\n", entry.DueAt().Local().Format("2006-01-02 15:04"))

	if len(reviews) == 0 {
		return r.writePlainln("Not reviewed yet.")
	}

	r.writePlainln("Reviews (%d):", len(reviews))
	for _, rv := range reviews {
		r.writePlain("  %s  grade %d (%s), next in %d days\n",
			rv.ReviewedAt().Local().Format("2006-01-02 15:04"), rv.Grade(), study.Grade(rv.Grade()), rv.Interval())
	}
	return nil
}

// EntryRemove soft-deletes an entry.
func (r *Runner) EntryRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := entryIDArg(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := r.deck(db).Entry(id)
	if err != nil {
		return err
	}

	if err := repositories.NewEntryRepository(db).Delete(entry.ID()); err != nil {
		return err
	}

	return r.writePlain("✓ Removed #%d %s\n", entry.Sequence(), entry.Title())
}
