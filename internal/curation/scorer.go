package curation

import (
	"strings"

	"autodj/internal/models"
	"autodj/internal/shared"
)

// Default composite weights and bands.
const (
	defaultBPMWeight    = 0.35
	defaultLabelWeight  = 0.35
	defaultArtistWeight = 0.30
	defaultBPMTolerance = 10.0
	defaultNeutral      = 0.5

	genrePartialCredit = 0.5
)

// Scorer computes the style-compatibility score of a candidate against a
// profile: a weighted sum of BPM fit, genre/label match, and an
// artist-similarity signal, each in [0,1].
//
// Score is a pure function of its inputs. Identical candidate and profile
// always produce the identical float, which keeps ranking deterministic.
type Scorer struct {
	bpmWeight    float64
	labelWeight  float64
	artistWeight float64
	tolerance    float64
	neutral      float64
	sim          Similarity
}

// NewScorer creates a Scorer from the scoring config, falling back to
// defaults for zero-valued fields. A nil sim uses [LocalSimilarity].
func NewScorer(cfg shared.ScoringConfig, sim Similarity) *Scorer {
	s := &Scorer{
		bpmWeight:    cfg.BPMWeight,
		labelWeight:  cfg.LabelWeight,
		artistWeight: cfg.ArtistWeight,
		tolerance:    cfg.BPMTolerance,
		neutral:      cfg.Neutral,
		sim:          sim,
	}
	if s.bpmWeight <= 0 && s.labelWeight <= 0 && s.artistWeight <= 0 {
		s.bpmWeight = defaultBPMWeight
		s.labelWeight = defaultLabelWeight
		s.artistWeight = defaultArtistWeight
	}
	if s.tolerance <= 0 {
		s.tolerance = defaultBPMTolerance
	}
	if s.neutral <= 0 {
		s.neutral = defaultNeutral
	}
	if s.sim == nil {
		s.sim = LocalSimilarity{}
	}
	return s
}

// Score returns the composite style-compatibility score in [0,1].
func (s *Scorer) Score(c models.Candidate, p models.StyleProfile) float64 {
	composite := s.bpmWeight*s.bpmFit(c, p) +
		s.labelWeight*s.labelFit(c, p) +
		s.artistWeight*s.artistFit(c, p)
	return clamp01(composite)
}

// bpmFit is 1.0 inside the profile range, decays linearly to 0 across the
// tolerance band beyond either edge, and clamps to 0 past it. An unknown BPM
// contributes the neutral default so sources that omit tempo are not
// penalized.
func (s *Scorer) bpmFit(c models.Candidate, p models.StyleProfile) float64 {
	if !c.HasBPM() {
		return s.neutral
	}
	switch {
	case c.BPM >= p.BPMLow && c.BPM <= p.BPMHigh:
		return 1.0
	case c.BPM < p.BPMLow:
		return clamp01(1.0 - (p.BPMLow-c.BPM)/s.tolerance)
	default:
		return clamp01(1.0 - (c.BPM-p.BPMHigh)/s.tolerance)
	}
}

// labelFit is 1.0 on a reference-label match, partial credit when the
// candidate's genre text overlaps the profile's genre tags, 0 otherwise.
func (s *Scorer) labelFit(c models.Candidate, p models.StyleProfile) float64 {
	if c.Label != "" {
		label := strings.ToLower(c.Label)
		for _, ref := range p.Labels {
			if labelMatches(label, strings.ToLower(ref)) {
				return 1.0
			}
		}
	}
	if c.Genre != "" {
		genre := strings.ToLower(c.Genre)
		for _, tag := range p.Genres {
			if strings.Contains(genre, strings.ToLower(tag)) {
				return genrePartialCredit
			}
		}
	}
	return 0
}

// labelMatches treats "Insomniac" and "Insomniac Records" as the same label:
// catalogs abbreviate imprint names inconsistently, so containment in either
// direction counts.
func labelMatches(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// artistFit is 1.0 on an exact reference-artist match. Otherwise it passes
// through the adapter's similarity hint when one exists, or asks the
// similarity service; a service failure degrades to the neutral default.
func (s *Scorer) artistFit(c models.Candidate, p models.StyleProfile) float64 {
	artist := strings.ToLower(c.Artist)
	for _, ref := range p.Artists {
		if artist == strings.ToLower(ref) {
			return 1.0
		}
	}

	if c.SimilarityHint >= 0 {
		return clamp01(c.SimilarityHint)
	}

	v, err := s.sim.Similarity(c.Artist, p.Artists)
	if err != nil {
		return s.neutral
	}
	return clamp01(v)
}
