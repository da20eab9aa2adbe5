// Package curation implements the candidate pipeline: normalization, style
// scoring, deduplication, and ranking/selection into a playlist.
//
// # Pipeline
//
// Raw adapter output flows strictly left to right:
//
//	adapters → [Normalizer] → [Scorer] → [Deduplicator] → [Curator] → models.Playlist
//
// Every stage is a pure transform over an in-memory slice. Stages never read
// ambient state: the [models.StyleProfile] and all tunables arrive as explicit
// values, which keeps scoring deterministic and every property testable.
//
// # Stages
//
//   - [Normalizer] : folds heterogeneous RawCandidates into canonical
//     Candidates, computing the identity key (case-folded, whitespace-collapsed,
//     annotation-stripped artist+title) and discarding implausible BPM values.
//   - [Scorer] : weighted composite of BPM fit, genre/label match, and an
//     artist-similarity signal, each in [0,1]. The similarity signal comes from
//     a pluggable [Similarity] implementation; failures degrade to a neutral
//     default instead of aborting.
//   - [Deduplicator] : collapses candidates sharing an identity key, merging
//     provenance and keeping the best-scored representative. An optional
//     second pass catches near-duplicate titles (minor "feat."/edit variants)
//     via a pluggable [Matcher] strategy. Both passes are idempotent.
//   - [Curator] : total-order ranking (score desc, discovery time asc,
//     normalized artist asc), top-K selection with explicit shortfall
//     reporting, and an optional BPM flow-ordering pass that smooths the tempo
//     progression without changing set membership.
package curation
