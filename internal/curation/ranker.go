package curation

import (
	"sort"

	"autodj/internal/models"
)

// Curator orders deduplicated candidates and selects the top-K for a
// playlist. Ranking is a stable total order: score descending, then discovery
// timestamp ascending (earlier-discovered wins), then normalized artist
// ascending. Running it twice on the same set yields the same sequence.
type Curator struct {
	profile   models.StyleProfile
	flowOrder bool
}

// NewCurator creates a Curator. When flowOrder is set, the selected set is
// reordered by BPM proximity for a smoother tempo progression; membership and
// entry count never change.
func NewCurator(profile models.StyleProfile, flowOrder bool) *Curator {
	return &Curator{profile: profile, flowOrder: flowOrder}
}

// Rank sorts candidates into the total order without selecting.
// The input slice is not modified.
func (cu *Curator) Rank(candidates []models.Candidate) []models.Candidate {
	ranked := make([]models.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.DiscoveredAt.Equal(b.DiscoveredAt) {
			return a.DiscoveredAt.Before(b.DiscoveredAt)
		}
		return a.KeyArtist < b.KeyArtist
	})

	return ranked
}

// Curate ranks candidates and selects up to targetCount entries with
// contiguous 1-based ranks. When fewer candidates exist than requested the
// whole set is returned and the difference reported as a shortfall; a
// shortfall is a partial-fulfillment condition, never an error, and no
// placeholders are padded in.
func (cu *Curator) Curate(candidates []models.Candidate, targetCount int) ([]models.PlaylistEntry, int) {
	ranked := cu.Rank(candidates)

	shortfall := 0
	if targetCount < 0 {
		targetCount = 0
	}
	if len(ranked) > targetCount {
		ranked = ranked[:targetCount]
	} else {
		shortfall = targetCount - len(ranked)
	}

	if cu.flowOrder {
		ranked = cu.smoothTempo(ranked)
	}

	entries := make([]models.PlaylistEntry, len(ranked))
	for i, c := range ranked {
		entries[i] = models.PlaylistEntry{Rank: i + 1, Candidate: c}
	}

	return entries, shortfall
}

// smoothTempo reorders the selected set so adjacent entries minimize BPM
// deltas. A pure reordering: the set and its size are preserved exactly.
// Candidates without a known BPM slot in at the profile's midpoint, keeping
// the pass deterministic.
func (cu *Curator) smoothTempo(selected []models.Candidate) []models.Candidate {
	midpoint := (cu.profile.BPMLow + cu.profile.BPMHigh) / 2

	out := make([]models.Candidate, len(selected))
	copy(out, selected)

	sort.SliceStable(out, func(i, j int) bool {
		return cu.effectiveBPM(out[i], midpoint) < cu.effectiveBPM(out[j], midpoint)
	})

	return out
}

func (cu *Curator) effectiveBPM(c models.Candidate, midpoint float64) float64 {
	if c.HasBPM() {
		return c.BPM
	}
	return midpoint
}
