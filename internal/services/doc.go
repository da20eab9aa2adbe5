// Package services defines the [Source] interface for track discovery
// providers and implements it for Perplexity and Beatport.
//
// # Source Interface
//
// All discovery providers implement a common abstraction so the pipeline can
// aggregate candidates uniformly regardless of where they came from.
//
// # Perplexity Implementation
//
// [PerplexitySource] asks the Perplexity chat-completions API for artists and
// tracks matching the style profile, then parses the free-text answer into
// raw candidates. Parsed candidates carry a similarity hint derived from
// keyword overlap with the profile, so downstream scoring does not have to
// call back out to the network.
//
// # Beatport Implementation
//
// [BeatportSource] queries the Beatport catalog API. One instance serves one
// discovery mode:
//   - [ModeLabelReleases] : releases from the profile's reference labels
//   - [ModeArtistTracks] : tracks by the profile's reference artists
//   - [ModeGenreCharts] : the top-100 chart per profile genre, where chart
//     position becomes a popularity signal
//
// Authentication uses the OAuth2 client-credentials flow; the token source
// refreshes automatically.
//
// # Error Handling
//
// A source that cannot reach its provider wraps [shared.ErrSourceUnavailable]
// and returns zero candidates. Missing credentials wrap
// [shared.ErrMissingCredentials] at construction time. An empty result set is
// never an error.
//
// All requests go through a shared [transport]: per-source rate limiting,
// per-call timeout, and bounded retries.
package services
