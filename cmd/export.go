package main

import (
	"context"
	"fmt"

	"autodj/internal/models"
	"autodj/internal/shared"

	"github.com/urfave/cli/v3"
)

// Export re-exports a stored playlist in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if r.playlists == nil {
		return fmt.Errorf("%w: database not initialized, run 'autodj setup database' first", shared.ErrMissingConfig)
	}

	playlist, err := r.resolvePlaylist(cmd.String("id"))
	if err != nil {
		return err
	}

	r.logger.Info("exporting playlist", "id", playlist.ID, "name", playlist.Name, "format", cmd.String("format"))
	r.writePlain("Exporting playlist: %s (%d tracks)\n", playlist.Name, len(playlist.Entries))

	return r.exportPlaylist(playlist, cmd.String("format"), cmd.String("output"))
}

// resolvePlaylist loads a playlist by ID, or the most recent one when id is empty.
func (r *Runner) resolvePlaylist(id string) (*models.Playlist, error) {
	if id != "" {
		playlist, err := r.playlists.Get(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load playlist %s: %w", id, err)
		}
		return playlist, nil
	}

	playlists, err := r.playlists.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	if len(playlists) == 0 {
		return nil, fmt.Errorf("%w: no playlists stored, run 'autodj curate' first", shared.ErrPlaylistNotFound)
	}
	return playlists[0], nil
}
