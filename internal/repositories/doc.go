// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [CandidateRepository] : Discovered tracks, upserted by identity key so reruns refresh instead of duplicate
//   - [PlaylistRepository] : Curated playlists with entries stored as an ordered JSON array
//
// [CandidateRepository.LogSearch] additionally records per-source discovery
// outcomes in search_history, feeding the stats view.
//
// Sequence numbers provide stable, human-readable ordering (e.g., candidate #42, playlist #3) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
