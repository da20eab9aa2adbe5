// Package tasks orchestrates the curation pipeline end to end.
//
// The core abstraction is [DiscoveryEngine], which fans out to discovery
// sources concurrently, runs the normalize/score/dedupe transforms, persists
// candidates, and assembles ranked playlists. Operations emit progress
// updates via channels for non-blocking status reporting to the CLI layer.
//
// # Discovery
//
// [DiscoveryEngine.Run] validates the style profile first: an invalid
// profile is fatal before any source is contacted. Sources then run in one
// goroutine each; a failed source is recorded on the [DiscoveryReport] and
// contributes zero candidates, but never aborts the run.
//
// # Curation
//
// [DiscoveryEngine.Curate] loads stored candidates at or above a score
// floor, dedupes them again (the pass is idempotent), ranks, assembles and
// persists a playlist. When fewer candidates exist than requested the
// [CurationReport] carries the shortfall; partial fulfillment is not an
// error.
package tasks
