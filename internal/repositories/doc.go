// Package repositories implements SQLite persistence for the study deck and the playlist cache.
//
// Key Implementations:
//   - [EntryRepository] : study cards with soft deletes, sequence lookups and due queries
//   - [ReviewRepository] : append-only review history per entry
//   - [PlaylistRepository] : YouTube playlists and their items, replaced wholesale on refetch
//   - [PlaylistCacheAdapter] : best-effort caching used by the site server
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs. For entries the sequence is also
// the public id used in study URLs. The [NextSequence] function atomically increments per-table sequence counters in
// dedicated sequence tables.
package repositories
