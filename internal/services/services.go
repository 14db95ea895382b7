package services

import (
	"context"

	"github.com/desertthunder/callouts/internal/models"
)

// PlaylistFetcher retrieves a playlist with all of its items.
//
// [YouTubeService] implements it; the site server and CLI depend on this interface.
type PlaylistFetcher interface {
	RequestPlaylist(ctx context.Context, playlistID string) (*models.PlaylistWrapper, error)
}
