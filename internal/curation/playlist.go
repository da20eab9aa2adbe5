package curation

import (
	"fmt"
	"time"

	"autodj/internal/models"
	"autodj/internal/shared"
)

// Assembler turns ranked entries into a named [models.Playlist].
type Assembler struct {
	profile models.StyleProfile

	now   func() time.Time
	newID func() string
}

// NewAssembler creates an Assembler for the given profile.
func NewAssembler(profile models.StyleProfile) *Assembler {
	return &Assembler{
		profile: profile,
		now:     time.Now,
		newID:   shared.GenerateID,
	}
}

// Assemble builds a playlist from entries. The name defaults to the profile
// name with a date suffix when empty; the description summarizes the track
// count and average tempo.
func (a *Assembler) Assemble(name string, entries []models.PlaylistEntry) models.Playlist {
	created := a.now()
	if name == "" {
		name = fmt.Sprintf("%s %s", a.profile.Name, created.Format("2006-01-02"))
	}

	playlist := models.Playlist{
		ID:        a.newID(),
		Name:      name,
		Entries:   entries,
		CreatedAt: created,
	}
	playlist.Description = a.describe(playlist)

	return playlist
}

func (a *Assembler) describe(p models.Playlist) string {
	if len(p.Entries) == 0 {
		return fmt.Sprintf("%s set, no tracks selected", a.profile.Name)
	}
	if avg := p.AverageBPM(); avg > 0 {
		return fmt.Sprintf("%s set, %d tracks, avg %.1f BPM", a.profile.Name, len(p.Entries), avg)
	}
	return fmt.Sprintf("%s set, %d tracks", a.profile.Name, len(p.Entries))
}
