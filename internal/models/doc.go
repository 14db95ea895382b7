// Package models defines domain entities and persistence interfaces for the callouts study site.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs mirroring YouTube Data API resources
//   - [Playlist] : playlist metadata
//   - [PlaylistItem] : one video in a playlist
//   - [PlaylistWrapper] : a playlist with every item fetched across pages
//
// 2. Persistent Entities: database-backed models with getters and setters
//   - [Entry] : a study card with its spaced-repetition state
//   - [Review] : one graded review of an entry
//
// Persistent entities implement the [Model] interface. The [Repository] interface defines standard CRUD
// operations for database access.
package models
