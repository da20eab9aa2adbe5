package curation

import (
	"autodj/internal/models"
	"autodj/internal/shared"
)

const defaultEditDistance = 2

// Matcher decides whether two candidates are the same underlying track.
// The matching policy is pluggable so it can be swapped and tested
// independently of the merge logic.
type Matcher interface {
	SameTrack(a, b *models.Candidate) bool
}

// IdentityMatcher matches on the exact identity key.
type IdentityMatcher struct{}

func (IdentityMatcher) SameTrack(a, b *models.Candidate) bool {
	return a.IdentityKey() == b.IdentityKey()
}

// NearDuplicateMatcher matches minor title variants ("feat." credits,
// stray punctuation) that survive normalization: identical normalized artist
// and title edit distance within a small configurable threshold.
type NearDuplicateMatcher struct {
	Threshold int
}

func (m NearDuplicateMatcher) SameTrack(a, b *models.Candidate) bool {
	if a.KeyArtist != b.KeyArtist {
		return false
	}
	threshold := m.Threshold
	if threshold <= 0 {
		threshold = defaultEditDistance
	}
	return editDistance(a.KeyTitle, b.KeyTitle) <= threshold
}

// Deduplicator collapses candidates that describe the same track, merging
// provenance and keeping the strongest representative. Order is preserved on
// first occurrence and both passes are idempotent.
type Deduplicator struct {
	secondary bool
	matcher   Matcher
}

// NewDeduplicator creates a Deduplicator from the matching config. The
// near-duplicate pass runs only when the config enables it.
func NewDeduplicator(cfg shared.MatchingConfig) *Deduplicator {
	return &Deduplicator{
		secondary: cfg.SecondaryPass,
		matcher:   NearDuplicateMatcher{Threshold: cfg.EditDistance},
	}
}

// NewDeduplicatorWithMatcher creates a Deduplicator with a custom secondary
// matching strategy.
func NewDeduplicatorWithMatcher(m Matcher) *Deduplicator {
	return &Deduplicator{secondary: m != nil, matcher: m}
}

// Dedupe collapses duplicates in two passes: exact identity-key grouping,
// then the optional near-duplicate pass. The returned slice keeps first-seen
// order and contains no two candidates with the same identity key.
func (d *Deduplicator) Dedupe(in []models.Candidate) []models.Candidate {
	out := d.dedupeExact(in)
	if d.secondary && d.matcher != nil {
		// A merge can swap a group's representative title after later
		// candidates were compared against the old one, leaving two
		// survivors that still match. Repeat until a pass merges nothing.
		for {
			merged := d.dedupeNear(out)
			done := len(merged) == len(out)
			out = merged
			if done {
				break
			}
		}
	}
	return out
}

func (d *Deduplicator) dedupeExact(in []models.Candidate) []models.Candidate {
	byKey := make(map[string]int, len(in))
	out := make([]models.Candidate, 0, len(in))

	for _, c := range in {
		key := c.IdentityKey()
		if idx, ok := byKey[key]; ok {
			out[idx] = merge(out[idx], c)
			continue
		}
		byKey[key] = len(out)
		out = append(out, c)
	}

	return out
}

func (d *Deduplicator) dedupeNear(in []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(in))

	for _, c := range in {
		merged := false
		for i := range out {
			if d.matcher.SameTrack(&out[i], &c) {
				out[i] = merge(out[i], c)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, c)
		}
	}

	return out
}

// merge collapses two candidates for the same track. The representative is
// the higher-scored one; score ties go to the candidate with more populated
// metadata, then to the earlier discovery. Provenance is the union, and
// metadata missing on the winner is backfilled from the loser.
func merge(a, b models.Candidate) models.Candidate {
	winner, loser := a, b
	if pickRepresentative(&b, &a) {
		winner, loser = b, a
	}

	for _, src := range loser.Provenance {
		if !winner.HasProvenance(src) {
			winner.Provenance = append(winner.Provenance, src)
		}
	}

	if !winner.HasBPM() && loser.HasBPM() {
		winner.BPM = loser.BPM
	}
	if winner.Key == "" {
		winner.Key = loser.Key
	}
	if winner.Genre == "" {
		winner.Genre = loser.Genre
	}
	if winner.Label == "" {
		winner.Label = loser.Label
	}
	if winner.URL == "" {
		winner.URL = loser.URL
	}
	if winner.Popularity == 0 {
		winner.Popularity = loser.Popularity
	}
	if loser.DiscoveredAt.Before(winner.DiscoveredAt) {
		winner.DiscoveredAt = loser.DiscoveredAt
	}

	return winner
}

// pickRepresentative reports whether candidate a beats candidate b.
func pickRepresentative(a, b *models.Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.MetadataFields() != b.MetadataFields() {
		return a.MetadataFields() > b.MetadataFields()
	}
	return a.DiscoveredAt.Before(b.DiscoveredAt)
}
