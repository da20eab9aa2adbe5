// Package models defines domain entities and persistence interfaces for the AutoDJ discovery pipeline.
//
// The package contains three categories of types:
//
// 1. Discovery inputs:
//   - [StyleProfile] : Immutable target-sound configuration (genres, BPM range, reference artists/labels)
//   - [RawCandidate] : Source-specific record produced by a discovery adapter, consumed by the normalizer
//
// 2. Canonical records:
//   - [Candidate] : Normalized, scoreable, deduplicatable representation of one discovered track.
//     Identity key = normalized (artist, title) pair; provenance records every source that surfaced it.
//
// 3. Curation outputs:
//   - [PlaylistEntry] : A candidate plus its 1-based rank position
//   - [Playlist] : Named, ordered sequence of entries handed to the export layer
//
// The [CandidateStore] and [PlaylistStore] interfaces define the persistence
// contract the pipeline consumes; repositories implement them over SQLite.
package models
