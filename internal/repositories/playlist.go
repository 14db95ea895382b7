package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

// PlaylistRepository caches fetched YouTube playlists with their items.
//
// Playlists are keyed by YouTube id. Saving a playlist that is already cached replaces its metadata and items.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Save upserts the playlist and replaces its items in one transaction
func (r *PlaylistRepository) Save(wrapper *models.PlaylistWrapper) error {
	if wrapper == nil || wrapper.Playlist.ID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}

	now := time.Now().UTC()
	if wrapper.Playlist.FetchedAt.IsZero() {
		wrapper.Playlist.FetchedAt = now
	}

	var rowID string
	err := r.db.QueryRow("SELECT id FROM playlists WHERE youtube_id = ?", wrapper.Playlist.ID).Scan(&rowID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		rowID = ""
	case err != nil:
		return fmt.Errorf("failed to look up playlist: %w", err)
	}

	var sequence int
	if rowID == "" {
		if sequence, err = NextSequence(r.db, "playlists"); err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}
		rowID = shared.GenerateID()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p := wrapper.Playlist
	if sequence > 0 {
		_, err = tx.Exec(`
			INSERT INTO playlists (id, sequence, youtube_id, title, description, channel_title, fetched_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rowID, sequence, p.ID, p.Title, p.Description, p.ChannelTitle, p.FetchedAt.UTC(), now, now)
	} else {
		_, err = tx.Exec(`
			UPDATE playlists SET title = ?, description = ?, channel_title = ?, fetched_at = ?, updated_at = ?
			WHERE id = ?
		`, p.Title, p.Description, p.ChannelTitle, p.FetchedAt.UTC(), now, rowID)
	}
	if err != nil {
		return fmt.Errorf("failed to save playlist: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM playlist_items WHERE playlist_id = ?", rowID); err != nil {
		return fmt.Errorf("failed to clear playlist items: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO playlist_items (playlist_id, position, video_id, title, description, channel_title)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range wrapper.Items {
		if _, err := stmt.Exec(rowID, i, item.VideoID, item.Title, item.Description, item.ChannelTitle); err != nil {
			return fmt.Errorf("failed to insert playlist item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}

	return nil
}

// Get returns a cached playlist and its items by YouTube id
func (r *PlaylistRepository) Get(youtubeID string) (*models.PlaylistWrapper, error) {
	var (
		rowID string
		p     models.Playlist
	)
	err := r.db.QueryRow(`
		SELECT id, youtube_id, title, description, channel_title, fetched_at
		FROM playlists WHERE youtube_id = ?
	`, youtubeID).Scan(&rowID, &p.ID, &p.Title, &p.Description, &p.ChannelTitle, &p.FetchedAt)
	if err != nil {
		return nil, notFound(err, shared.ErrPlaylistNotFound, youtubeID)
	}

	rows, err := r.db.Query(`
		SELECT position, video_id, title, description, channel_title
		FROM playlist_items WHERE playlist_id = ? ORDER BY position ASC
	`, rowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist items: %w", err)
	}
	defer rows.Close()

	wrapper := &models.PlaylistWrapper{Playlist: p, Items: []models.PlaylistItem{}}
	for rows.Next() {
		var item models.PlaylistItem
		if err := rows.Scan(&item.Position, &item.VideoID, &item.Title, &item.Description, &item.ChannelTitle); err != nil {
			return nil, fmt.Errorf("failed to scan playlist item: %w", err)
		}
		wrapper.Items = append(wrapper.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return wrapper, nil
}

// List returns cached playlist metadata, most recently fetched first
func (r *PlaylistRepository) List() ([]models.Playlist, error) {
	rows, err := r.db.Query(`
		SELECT youtube_id, title, description, channel_title, fetched_at
		FROM playlists ORDER BY fetched_at DESC, sequence DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ChannelTitle, &p.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Delete removes a cached playlist and its items
func (r *PlaylistRepository) Delete(youtubeID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM playlist_items WHERE playlist_id IN (SELECT id FROM playlists WHERE youtube_id = ?)
	`, youtubeID); err != nil {
		return fmt.Errorf("failed to delete playlist items: %w", err)
	}

	result, err := tx.Exec("DELETE FROM playlists WHERE youtube_id = ?", youtubeID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if err := checkAffected(result, shared.ErrPlaylistNotFound, youtubeID); err != nil {
		return err
	}

	return tx.Commit()
}
