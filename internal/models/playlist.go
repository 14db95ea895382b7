package models

import "time"

// Playlist is YouTube playlist metadata.
type Playlist struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channel_title"`
	FetchedAt    time.Time `json:"fetched_at,omitzero"`
}

// PlaylistItem is one video in a playlist.
type PlaylistItem struct {
	Position     int    `json:"position"`
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channel_title"`
}

// URL returns the watch URL of the item's video.
func (i PlaylistItem) URL() string {
	return "https://www.youtube.com/watch?v=" + i.VideoID
}

// PlaylistWrapper is a playlist with all of its items.
type PlaylistWrapper struct {
	Playlist Playlist       `json:"playlist"`
	Items    []PlaylistItem `json:"items"`
}
