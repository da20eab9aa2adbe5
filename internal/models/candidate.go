package models

import (
	"fmt"
	"time"
)

// UnsetScore marks a candidate that has not passed through the scorer yet.
// Persisted candidates are always scored; the sentinel only exists in memory.
const UnsetScore = -1.0

// RawCandidate is the loosely-typed record a discovery adapter produces.
// Fields other than Artist/Title/Source are best effort; scraped and AI
// sources routinely omit or garble them. RawCandidates never travel past
// the normalizer.
type RawCandidate struct {
	Artist string
	Title  string
	BPM    float64 // 0 = unknown
	Key    string
	Genre  string
	Label  string
	URL    string
	Source string

	// Popularity is a chart-derived signal in [0,1]; 0 = unknown.
	Popularity float64
	// SimilarityHint is an adapter-supplied artist-similarity estimate in
	// [0,1]; negative = no hint.
	SimilarityHint float64
}

// Candidate is the canonical record of one discovered track.
//
// Artist and Title keep their original display casing; KeyArtist and KeyTitle
// hold the normalized forms that make up the identity key. Only the scorer
// sets Score and only the deduplicator merges Provenance.
type Candidate struct {
	ID             string
	Artist         string
	Title          string
	KeyArtist      string
	KeyTitle       string
	BPM            float64 // 0 = unknown
	Key            string
	Genre          string
	Label          string
	URL            string
	Provenance     []string
	Score          float64
	SimilarityHint float64

	// Popularity is a chart-derived signal in [0,1]; 0 = unknown. It is
	// carried for display and ordering context, never into the score.
	Popularity   float64
	DiscoveredAt time.Time
}

// IdentityKey returns the dedup key: normalized title and artist joined with
// a pipe, matching the candidates.identity_key column.
func (c *Candidate) IdentityKey() string {
	return c.KeyTitle + "|" + c.KeyArtist
}

// HasBPM reports whether the candidate carries a trusted tempo.
func (c *Candidate) HasBPM() bool {
	return c.BPM > 0
}

// Scored reports whether the scorer has run on this candidate.
func (c *Candidate) Scored() bool {
	return c.Score >= 0
}

// MetadataFields counts the populated optional fields (BPM, key, label),
// used as a dedup tiebreaker: richer records win.
func (c *Candidate) MetadataFields() int {
	n := 0
	if c.HasBPM() {
		n++
	}
	if c.Key != "" {
		n++
	}
	if c.Label != "" {
		n++
	}
	return n
}

// HasProvenance reports whether source is already recorded on the candidate.
func (c *Candidate) HasProvenance(source string) bool {
	for _, s := range c.Provenance {
		if s == source {
			return true
		}
	}
	return false
}

// Validate checks invariants required before persistence.
func (c *Candidate) Validate() error {
	if c.KeyArtist == "" && c.KeyTitle == "" {
		return fmt.Errorf("candidate has no identity key")
	}
	if !c.Scored() {
		return fmt.Errorf("candidate %q is unscored", c.IdentityKey())
	}
	if c.Score < 0 || c.Score > 1 {
		return fmt.Errorf("candidate %q score %.3f outside [0,1]", c.IdentityKey(), c.Score)
	}
	return nil
}

// PlaylistEntry is a candidate plus its rank position. Ranks are 1-based and
// contiguous; entries are immutable once created by the ranker.
type PlaylistEntry struct {
	Rank      int
	Candidate Candidate
}

// Playlist is the terminal output of the curation pipeline, handed to the
// export layer as-is.
type Playlist struct {
	ID          string
	Name        string
	Description string
	Entries     []PlaylistEntry
	CreatedAt   time.Time
}

// AverageBPM returns the mean tempo over entries with a known BPM, or 0 when
// none carry one.
func (p *Playlist) AverageBPM() float64 {
	sum, n := 0.0, 0
	for _, e := range p.Entries {
		if e.Candidate.HasBPM() {
			sum += e.Candidate.BPM
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Validate checks the contiguous-rank invariant.
func (p *Playlist) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("playlist has no name")
	}
	for i, e := range p.Entries {
		if e.Rank != i+1 {
			return fmt.Errorf("playlist %q rank %d at position %d breaks contiguity", p.Name, e.Rank, i)
		}
	}
	return nil
}
