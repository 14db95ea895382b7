package study

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

// EntryStore persists entries. [repositories.EntryRepository] implements it.
type EntryStore interface {
	Create(entry *models.Entry) error
	GetBySequence(sequence int) (*models.Entry, error)
	Update(entry *models.Entry) error
	List(criteria map[string]any) ([]*models.Entry, error)
	Due(now time.Time, limit int) ([]*models.Entry, error)
}

// ReviewStore records reviews. [repositories.ReviewRepository] implements it.
type ReviewStore interface {
	Create(review *models.Review) error
}

// Day is one row of the due calendar.
type Day struct {
	Date    time.Time
	Entries []*models.Entry
}

// Count returns how many entries fall due on the day.
func (d Day) Count() int { return len(d.Entries) }

// Service runs study sessions over the deck.
type Service struct {
	entries EntryStore
	reviews ReviewStore
	logger  *log.Logger
	now     func() time.Time
}

// NewService creates a study service. A nil logger discards output.
func NewService(entries EntryStore, reviews ReviewStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{entries: entries, reviews: reviews, logger: logger, now: time.Now}
}

// Add creates a new entry, due immediately.
func (s *Service) Add(header, title, description, footer string) (*models.Entry, error) {
	entry := models.NewEntry(header, title, description, footer)
	entry.SetSchedule(models.DefaultEase, 0, 0, s.now())
	if err := s.entries.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to add entry: %w", err)
	}
	s.logger.Info("entry added", "entry_id", entry.Sequence(), "title", entry.Title())
	return entry, nil
}

// Entry returns the entry with the given public id.
func (s *Service) Entry(entryID int) (*models.Entry, error) {
	return s.entries.GetBySequence(entryID)
}

// Entries returns every entry in the deck.
func (s *Service) Entries() ([]*models.Entry, error) {
	return s.entries.List(nil)
}

// Due returns entries due now, earliest first. A limit of zero returns all of them.
func (s *Service) Due(limit int) ([]*models.Entry, error) {
	return s.entries.Due(s.now(), limit)
}

// NextDue returns the earliest due entry, or nil when nothing is due.
func (s *Service) NextDue() (*models.Entry, error) {
	due, err := s.Due(1)
	if err != nil || len(due) == 0 {
		return nil, err
	}
	return due[0], nil
}

// Review grades the entry with the given public id and reschedules it.
func (s *Service) Review(entryID int, g Grade) (*models.Entry, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", shared.ErrInvalidGrade, int(g))
	}

	entry, err := s.entries.GetBySequence(entryID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	next := Schedule(StateOf(entry), g)
	entry.SetSchedule(next.Ease, next.Interval, next.Repetitions, next.Due(now))
	entry.SetReviewedAt(&now)

	if err := s.entries.Update(entry); err != nil {
		return nil, fmt.Errorf("failed to reschedule entry: %w", err)
	}

	if err := s.reviews.Create(models.NewReview(entry.ID(), int(g), next.Ease, next.Interval, now)); err != nil {
		return nil, fmt.Errorf("failed to record review: %w", err)
	}

	s.logger.Debug("entry reviewed", "entry_id", entryID, "grade", g, "interval", next.Interval, "ease", next.Ease)
	return entry, nil
}

// Calendar buckets entries by due date for the next days, starting today.
//
// Overdue entries are counted on the first day. Entries due after the window are left out.
func (s *Service) Calendar(days int) ([]Day, error) {
	if days < 1 {
		days = 1
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, days)

	entries, err := s.entries.List(map[string]any{"due_before": end.Add(-time.Nanosecond)})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	calendar := make([]Day, days)
	for i := range calendar {
		calendar[i].Date = start.AddDate(0, 0, i)
	}

	for _, entry := range entries {
		due := entry.DueAt().In(now.Location())
		i := 0
		if due.After(start) {
			i = int(due.Sub(start) / (24 * time.Hour))
		}
		if i >= days {
			continue
		}
		calendar[i].Entries = append(calendar[i].Entries, entry)
	}

	return calendar, nil
}
