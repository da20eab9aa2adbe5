package curation

import (
	"fmt"
	"strings"
	"time"

	"autodj/internal/models"
	"autodj/internal/shared"
)

// Default BPM sanity bounds; scraped and AI sources report tempos outside
// this range often enough that they cannot be trusted.
const (
	defaultBPMFloor   = 60.0
	defaultBPMCeiling = 200.0
)

// defaultAnnotations are the bracketed/suffixed release annotations stripped
// when computing identity keys. The list is configuration; these only apply
// when the config omits one.
var defaultAnnotations = []string{
	"original mix",
	"extended mix",
	"radio edit",
	"club mix",
	"remastered",
	"remaster",
	"edit",
}

// Normalizer converts heterogeneous adapter output into canonical candidates.
// It is a pure transform: one RawCandidate in, one Candidate (or a rejection)
// out, no other side effects.
type Normalizer struct {
	annotations []string
	bpmFloor    float64
	bpmCeiling  float64
	now         func() time.Time
	newID       func() string
}

// NewNormalizer creates a Normalizer from the matching config, falling back
// to defaults for any zero-valued field.
func NewNormalizer(cfg shared.MatchingConfig) *Normalizer {
	n := &Normalizer{
		annotations: cfg.Annotations,
		bpmFloor:    cfg.BPMFloor,
		bpmCeiling:  cfg.BPMCeiling,
		now:         time.Now,
		newID:       shared.GenerateID,
	}
	if len(n.annotations) == 0 {
		n.annotations = defaultAnnotations
	}
	if n.bpmFloor <= 0 {
		n.bpmFloor = defaultBPMFloor
	}
	if n.bpmCeiling <= 0 {
		n.bpmCeiling = defaultBPMCeiling
	}
	return n
}

// Normalize converts a RawCandidate into a canonical Candidate.
// A record missing both artist and title cannot be identified and is rejected
// with [shared.ErrMalformedCandidate].
func (n *Normalizer) Normalize(raw models.RawCandidate) (models.Candidate, error) {
	artist := shared.CollapseWhitespace(raw.Artist)
	title := shared.CollapseWhitespace(raw.Title)

	if artist == "" && title == "" {
		return models.Candidate{}, fmt.Errorf("%w: no artist or title (source %s)", shared.ErrMalformedCandidate, raw.Source)
	}

	c := models.Candidate{
		ID:           n.newID(),
		Artist:       artist,
		Title:        title,
		KeyArtist:    n.normalizeKey(artist),
		KeyTitle:     n.normalizeKey(title),
		Key:          shared.CollapseWhitespace(raw.Key),
		Genre:        shared.CollapseWhitespace(raw.Genre),
		Label:        shared.CollapseWhitespace(raw.Label),
		URL:          strings.TrimSpace(raw.URL),
		Score:        models.UnsetScore,
		DiscoveredAt: n.now(),
	}

	if raw.Source != "" {
		c.Provenance = []string{raw.Source}
	}

	// Implausible tempo values are demoted to unknown rather than trusted.
	if raw.BPM >= n.bpmFloor && raw.BPM <= n.bpmCeiling {
		c.BPM = raw.BPM
	}

	if raw.Popularity > 0 {
		c.Popularity = clamp01(raw.Popularity)
	}

	if raw.SimilarityHint > 0 {
		c.SimilarityHint = clamp01(raw.SimilarityHint)
	} else {
		c.SimilarityHint = -1
	}

	return c, nil
}

// normalizeKey case-folds, collapses whitespace, and strips annotation
// brackets/suffixes for identity-key purposes. Display strings are untouched.
func (n *Normalizer) normalizeKey(s string) string {
	s = strings.ToLower(s)
	s = n.stripBrackets(s)
	s = n.stripSuffix(s)
	return shared.CollapseWhitespace(s)
}

// stripBrackets removes "(...)" and "[...]" groups whose content matches the
// annotation list, e.g. "Baby Girl (Radio Edit)" -> "Baby Girl".
func (n *Normalizer) stripBrackets(s string) string {
	for _, pair := range [][2]rune{{'(', ')'}, {'[', ']'}} {
		from := 0
		for from < len(s) {
			open := strings.IndexRune(s[from:], pair[0])
			if open < 0 {
				break
			}
			open += from
			close := strings.IndexRune(s[open:], pair[1])
			if close < 0 {
				break
			}
			close += open
			inner := strings.TrimSpace(s[open+1 : close])
			if n.isAnnotation(inner) {
				s = s[:open] + s[close+1:]
				from = open
			} else {
				// Keep the group and scan on; an annotation may follow a
				// non-annotation group.
				from = close + 1
			}
		}
	}
	return s
}

// stripSuffix removes a trailing " - <annotation>" segment, the other common
// way catalogs tack release annotations onto titles.
func (n *Normalizer) stripSuffix(s string) string {
	if idx := strings.LastIndex(s, " - "); idx >= 0 {
		if n.isAnnotation(strings.TrimSpace(s[idx+3:])) {
			return s[:idx]
		}
	}
	return s
}

func (n *Normalizer) isAnnotation(text string) bool {
	for _, a := range n.annotations {
		if strings.Contains(text, a) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
