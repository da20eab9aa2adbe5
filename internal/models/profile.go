package models

import (
	"fmt"

	"autodj/internal/shared"
)

// StyleProfile is the immutable target-sound configuration candidates are
// scored against. It is loaded once at process start and read-only thereafter;
// every pipeline stage receives it as an explicit value, never via globals.
type StyleProfile struct {
	Name            string
	Genres          []string
	BPMLow          float64
	BPMHigh         float64
	Artists         []string
	Labels          []string
	ReferenceTracks []string
	KeyPreferences  []string
}

// NewStyleProfile builds a StyleProfile from the profile section of the
// application config.
func NewStyleProfile(cfg shared.ProfileConfig) StyleProfile {
	return StyleProfile{
		Name:            cfg.Name,
		Genres:          cfg.Genres,
		BPMLow:          cfg.BPMLow,
		BPMHigh:         cfg.BPMHigh,
		Artists:         cfg.Artists,
		Labels:          cfg.Labels,
		ReferenceTracks: cfg.ReferenceTracks,
		KeyPreferences:  cfg.KeyPreferences,
	}
}

// Validate checks the profile before any adapter call is made. An invalid
// profile is fatal for the whole run.
func (p StyleProfile) Validate() error {
	if p.BPMLow <= 0 || p.BPMHigh <= 0 {
		return fmt.Errorf("%w: BPM range must be positive, got [%.1f, %.1f]", shared.ErrInvalidProfile, p.BPMLow, p.BPMHigh)
	}
	if p.BPMLow > p.BPMHigh {
		return fmt.Errorf("%w: BPM low %.1f exceeds high %.1f", shared.ErrInvalidProfile, p.BPMLow, p.BPMHigh)
	}
	if len(p.Genres) == 0 && len(p.Artists) == 0 && len(p.Labels) == 0 {
		return fmt.Errorf("%w: profile needs at least one genre, artist, or label", shared.ErrInvalidProfile)
	}
	return nil
}
