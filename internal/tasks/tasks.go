package tasks

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/services"
)

// PlaylistCacher stores playlists as they are fetched.
//
// [repositories.PlaylistCacheAdapter] implements it.
type PlaylistCacher interface {
	CachePlaylist(wrapper *models.PlaylistWrapper)
}

// ExportEngine exports playlists from a [services.PlaylistFetcher].
type ExportEngine struct {
	source services.PlaylistFetcher
	cache  PlaylistCacher
	logger *log.Logger
}

// NewExportEngine creates an engine reading from source. cache and logger may be nil.
func NewExportEngine(source services.PlaylistFetcher, cache PlaylistCacher, logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ExportEngine{source: source, cache: cache, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
