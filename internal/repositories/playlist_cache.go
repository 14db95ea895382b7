package repositories

import (
	"github.com/charmbracelet/log"

	"github.com/desertthunder/callouts/internal/models"
)

// PlaylistCacheAdapter caches fetched playlists without failing the caller.
//
// A failed write is logged and swallowed so a page that already has the playlist can still render it.
type PlaylistCacheAdapter struct {
	repo   *PlaylistRepository
	logger *log.Logger
}

// NewPlaylistCacheAdapter creates a new PlaylistCacheAdapter with the given repository
func NewPlaylistCacheAdapter(repo *PlaylistRepository, logger *log.Logger) *PlaylistCacheAdapter {
	return &PlaylistCacheAdapter{repo: repo, logger: logger}
}

// CachePlaylist stores the playlist, logging any failure
func (a *PlaylistCacheAdapter) CachePlaylist(wrapper *models.PlaylistWrapper) {
	if err := a.repo.Save(wrapper); err != nil {
		a.logger.Warn("failed to cache playlist", "playlist", wrapper.Playlist.ID, "error", err)
		return
	}
	a.logger.Debug("cached playlist", "playlist", wrapper.Playlist.ID, "items", len(wrapper.Items))
}

// CachedPlaylists lists cached playlists, returning none on failure
func (a *PlaylistCacheAdapter) CachedPlaylists() []models.Playlist {
	playlists, err := a.repo.List()
	if err != nil {
		a.logger.Warn("failed to list cached playlists", "error", err)
		return nil
	}
	return playlists
}
