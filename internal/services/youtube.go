// YouTube Data API v3 client
//
// Response types based on https://developers.google.com/youtube/v3/docs
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

const (
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	// maxPageSize is the largest maxResults the playlistItems endpoint accepts.
	maxPageSize = 50
)

type youtubeSnippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	Position     int    `json:"position"`
	ResourceID   struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

type youtubePlaylist struct {
	ID      string         `json:"id"`
	Snippet youtubeSnippet `json:"snippet"`
}

type youtubePlaylistItem struct {
	ID      string         `json:"id"`
	Snippet youtubeSnippet `json:"snippet"`
}

type youtubeList[T any] struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []T    `json:"items"`
}

type youtubeError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// YouTubeOptions configures a [YouTubeService].
type YouTubeOptions struct {
	BaseURL           string
	PageSize          int
	RequestsPerSecond float64
	Logger            *log.Logger
}

// YouTubeService reads playlists from the YouTube Data API.
type YouTubeService struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewYouTubeService creates a client that sends requests through httpClient.
//
// httpClient is expected to carry OAuth credentials, see [NewAuthenticatedClient].
func NewYouTubeService(httpClient *http.Client, opts YouTubeOptions) *YouTubeService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYouTubeBaseURL
	}
	if opts.PageSize <= 0 || opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &YouTubeService{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		pageSize:   opts.PageSize,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// RequestPlaylist fetches playlist metadata and then every page of its items.
//
// An empty metadata lookup returns [shared.ErrPlaylistNotFound]. Any failed page aborts the fetch.
func (y *YouTubeService) RequestPlaylist(ctx context.Context, playlistID string) (*models.PlaylistWrapper, error) {
	if strings.TrimSpace(playlistID) == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	playlist, err := y.playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	items, err := y.playlistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	y.logger.Debug("fetched playlist", "playlist", playlistID, "items", len(items))
	return &models.PlaylistWrapper{Playlist: *playlist, Items: items}, nil
}

func (y *YouTubeService) playlist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	params := url.Values{
		"part":       {"snippet"},
		"id":         {playlistID},
		"maxResults": {"1"},
	}

	var resp youtubeList[youtubePlaylist]
	if err := y.doRequest(ctx, "/playlists", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	p := resp.Items[0]
	return &models.Playlist{
		ID:           p.ID,
		Title:        p.Snippet.Title,
		Description:  p.Snippet.Description,
		ChannelTitle: p.Snippet.ChannelTitle,
	}, nil
}

func (y *YouTubeService) playlistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	items := []models.PlaylistItem{}
	pageToken := ""

	for page := 1; ; page++ {
		params := url.Values{
			"part":       {"snippet"},
			"playlistId": {playlistID},
			"maxResults": {strconv.Itoa(y.pageSize)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp youtubeList[youtubePlaylistItem]
		if err := y.doRequest(ctx, "/playlistItems", params, &resp); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		for _, it := range resp.Items {
			items = append(items, models.PlaylistItem{
				Position:     it.Snippet.Position,
				VideoID:      it.Snippet.ResourceID.VideoID,
				Title:        it.Snippet.Title,
				Description:  it.Snippet.Description,
				ChannelTitle: it.Snippet.ChannelTitle,
			})
		}

		if resp.NextPageToken == "" {
			return items, nil
		}
		pageToken = resp.NextPageToken
	}
}

// doRequest performs a rate-limited GET against the Data API and decodes the JSON body into result.
func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	apiURL := y.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp youtubeError
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: youtube status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: youtube status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}

	return nil
}

// PlaylistIDFromURL returns the value of the first query pair of rawURL.
//
// A playlist link such as https://www.youtube.com/playlist?list=PL... yields the playlist id.
func PlaylistIDFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.RawQuery == "" {
		return "", false
	}

	first, _, _ := strings.Cut(u.RawQuery, "&")
	_, value, _ := strings.Cut(first, "=")
	value, err = url.QueryUnescape(value)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
