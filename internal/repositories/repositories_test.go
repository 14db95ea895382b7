package repositories

import (
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// every pooled connection to :memory: is a separate database
	shared.ConfigureDatabase(db, 1, 1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testPlaylist(id string, items ...string) *models.PlaylistWrapper {
	w := &models.PlaylistWrapper{
		Playlist: models.Playlist{ID: id, Title: "Callouts " + id, ChannelTitle: "Zageron"},
	}
	for i, v := range items {
		w.Items = append(w.Items, models.PlaylistItem{Position: i, VideoID: v, Title: "Video " + v})
	}
	return w
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "entries")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}
}

func TestEntryRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEntryRepository(db)
		entry := models.NewEntry("Test Item", "Sploosh", "Splooshes be splooshing.", "")

		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		if entry.ID() == "" {
			t.Error("entry ID should be set after creation")
		}
		if entry.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", entry.Sequence())
		}
	})

	t.Run("Get and GetBySequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEntryRepository(db)
		entry := models.NewEntry("Moray Towers", "Ramps", "The long ramps to mid.", "Footer")
		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		byID, err := repo.Get(entry.ID())
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if byID.Title() != "Ramps" || byID.Header() != "Moray Towers" || byID.Footer() != "Footer" {
			t.Errorf("unexpected entry content: %+v", byID.Data())
		}
		if byID.Ease() != models.DefaultEase {
			t.Errorf("expected default ease, got %f", byID.Ease())
		}

		bySeq, err := repo.GetBySequence(entry.Sequence())
		if err != nil {
			t.Fatalf("failed to get entry by sequence: %v", err)
		}
		if bySeq.ID() != entry.ID() {
			t.Errorf("expected ID %s, got %s", entry.ID(), bySeq.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEntryRepository(db)
		entry := models.NewEntry("", "Sploosh", "", "")
		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		due := time.Now().Add(6 * 24 * time.Hour).UTC().Truncate(time.Second)
		reviewed := time.Now().UTC().Truncate(time.Second)
		entry.SetSchedule(2.6, 6, 2, due)
		entry.SetReviewedAt(&reviewed)

		if err := repo.Update(entry); err != nil {
			t.Fatalf("failed to update entry: %v", err)
		}

		got, err := repo.Get(entry.ID())
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if got.Interval() != 6 || got.Repetitions() != 2 || got.Ease() != 2.6 {
			t.Errorf("schedule not persisted: interval=%d reps=%d ease=%f", got.Interval(), got.Repetitions(), got.Ease())
		}
		if !got.DueAt().Equal(due) {
			t.Errorf("expected due %v, got %v", due, got.DueAt())
		}
		if got.ReviewedAt() == nil || !got.ReviewedAt().Equal(reviewed) {
			t.Errorf("expected reviewed at %v, got %v", reviewed, got.ReviewedAt())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEntryRepository(db)
		entry := models.NewEntry("", "Sploosh", "", "")
		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		if err := repo.Delete(entry.ID()); err != nil {
			t.Fatalf("failed to delete entry: %v", err)
		}

		if _, err := repo.Get(entry.ID()); err == nil {
			t.Error("deleted entry should not be retrievable")
		}

		entries, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no entries after delete, got %d", len(entries))
		}
	})

	t.Run("as a generic Repository", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		var repo models.Repository[*models.Entry] = NewEntryRepository(db)

		entry := models.NewEntry("", "Sploosh", "", "")
		if err := repo.Create(entry); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		entry.SetContent("Moray Towers", "Sploosh-o-matic", "Short range.", "")
		if err := repo.Update(entry); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.Get(entry.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Title() != "Sploosh-o-matic" || got.Header() != "Moray Towers" {
			t.Errorf("content not persisted: %+v", got.Data())
		}

		if err := repo.Delete(entry.ID()); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if entries, err := repo.List(nil); err != nil || len(entries) != 0 {
			t.Errorf("expected no entries after delete, got %d (err %v)", len(entries), err)
		}
	})

	t.Run("List and Due", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewEntryRepository(db)
		now := time.Now().UTC()

		titles := []string{"Later", "Overdue", "Now"}
		dues := []time.Time{now.Add(48 * time.Hour), now.Add(-48 * time.Hour), now.Add(-time.Minute)}
		for i, title := range titles {
			entry := models.NewEntry("", title, "", "")
			entry.SetSchedule(models.DefaultEase, 0, 0, dues[i])
			if err := repo.Create(entry); err != nil {
				t.Fatalf("failed to create entry: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(all) != 3 || all[0].Title() != "Later" {
			t.Errorf("expected entries in sequence order, got %d", len(all))
		}

		due, err := repo.Due(now, 0)
		if err != nil {
			t.Fatalf("failed to list due entries: %v", err)
		}
		if len(due) != 2 {
			t.Fatalf("expected 2 due entries, got %d", len(due))
		}
		if due[0].Title() != "Overdue" || due[1].Title() != "Now" {
			t.Errorf("expected earliest due first, got %s, %s", due[0].Title(), due[1].Title())
		}

		limited, err := repo.Due(now, 1)
		if err != nil {
			t.Fatalf("failed to list due entries: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("expected limit to apply, got %d", len(limited))
		}
	})
}

func TestReviewRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	entries := NewEntryRepository(db)
	entry := models.NewEntry("", "Sploosh", "", "")
	if err := entries.Create(entry); err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	repo := NewReviewRepository(db)
	start := time.Now().UTC()
	for i, grade := range []int{2, 4, 5} {
		review := models.NewReview(entry.ID(), grade, 2.5, i+1, start.Add(time.Duration(i)*time.Minute))
		if err := repo.Create(review); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
		if review.ID() == "" {
			t.Error("review ID should be set after creation")
		}
	}

	t.Run("ListByEntry", func(t *testing.T) {
		reviews, err := repo.ListByEntry(entry.ID())
		if err != nil {
			t.Fatalf("failed to list reviews: %v", err)
		}
		if len(reviews) != 3 {
			t.Fatalf("expected 3 reviews, got %d", len(reviews))
		}
		if reviews[0].Grade() != 2 || reviews[2].Grade() != 5 {
			t.Errorf("expected reviews oldest first, got grades %d..%d", reviews[0].Grade(), reviews[2].Grade())
		}
	})

	t.Run("CountSince", func(t *testing.T) {
		count, err := repo.CountSince(start.Add(30 * time.Second))
		if err != nil {
			t.Fatalf("failed to count reviews: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 reviews since cutoff, got %d", count)
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Save and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		if err := repo.Save(testPlaylist("PL1", "a", "b", "c")); err != nil {
			t.Fatalf("failed to save playlist: %v", err)
		}

		got, err := repo.Get("PL1")
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if got.Playlist.Title != "Callouts PL1" || got.Playlist.FetchedAt.IsZero() {
			t.Errorf("unexpected playlist: %+v", got.Playlist)
		}
		if len(got.Items) != 3 || got.Items[2].VideoID != "c" || got.Items[2].Position != 2 {
			t.Errorf("unexpected items: %+v", got.Items)
		}
	})

	t.Run("Save replaces items", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		if err := repo.Save(testPlaylist("PL1", "a", "b", "c")); err != nil {
			t.Fatalf("failed to save playlist: %v", err)
		}

		updated := testPlaylist("PL1", "z")
		updated.Playlist.Title = "Renamed"
		if err := repo.Save(updated); err != nil {
			t.Fatalf("failed to resave playlist: %v", err)
		}

		got, err := repo.Get("PL1")
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if got.Playlist.Title != "Renamed" || len(got.Items) != 1 || got.Items[0].VideoID != "z" {
			t.Errorf("expected replaced playlist, got %+v", got)
		}

		all, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected one cached playlist, got %d", len(all))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		if err := repo.Save(testPlaylist("PL1", "a")); err != nil {
			t.Fatalf("failed to save playlist: %v", err)
		}
		if err := repo.Delete("PL1"); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}

		var items int
		if err := db.QueryRow("SELECT COUNT(*) FROM playlist_items").Scan(&items); err != nil {
			t.Fatalf("failed to count items: %v", err)
		}
		if items != 0 {
			t.Errorf("expected items to be removed, got %d", items)
		}
	})

	t.Run("CacheAdapter", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cache := NewPlaylistCacheAdapter(NewPlaylistRepository(db), log.New(io.Discard))
		cache.CachePlaylist(testPlaylist("PL1", "a"))
		cache.CachePlaylist(testPlaylist("PL2", "b"))

		if got := cache.CachedPlaylists(); len(got) != 2 {
			t.Errorf("expected 2 cached playlists, got %d", len(got))
		}
	})
}
