package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"autodj/internal/formatter"
	"autodj/internal/models"
	"autodj/internal/shared"
	"autodj/internal/tasks"

	"github.com/urfave/cli/v3"
)

// Curate ranks stored candidates, assembles a playlist, persists it, and
// optionally exports it.
func (r *Runner) Curate(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.engine()
	if err != nil {
		return err
	}

	opts := tasks.CurateOpts{
		TargetCount: int(cmd.Int("count")),
		MinScore:    cmd.Float("min-score"),
		Name:        cmd.String("name"),
		FlowOrder:   cmd.Bool("flow"),
	}

	r.logger.Info("curating playlist", "count", opts.TargetCount, "min_score", opts.MinScore)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.RankCandidates:
				r.writePlain("🎚  %s\n", update.Message)
			case tasks.AssemblePlaylist:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	report, err := engine.Curate(ctx, progressCh, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	playlist := report.Playlist

	r.writePlain("\n")
	r.writePlainHeader(playlist.Name)
	r.writePlain("%s\n\n", playlist.Description)

	if err := r.writePlaylistTable(&playlist); err != nil {
		return err
	}

	if report.Shortfall > 0 {
		r.writePlain("\n%s\n", warnStyle.Render(fmt.Sprintf(
			"Shortfall: requested %d tracks, only %d candidates scored ≥ %.2f (missing %d)",
			report.Requested, report.Selected, opts.MinScore, report.Shortfall)))
		r.writePlain("Run 'autodj discover' again or lower --min-score to fill the gap.\n")
	} else {
		r.writePlain("\n%s\n", okStyle.Render(fmt.Sprintf("Selected %d/%d tracks", report.Selected, report.Requested)))
	}

	if format := cmd.String("format"); format != "" {
		return r.exportPlaylist(&playlist, format, cmd.String("output"))
	}

	return nil
}

// writePlaylistTable renders a playlist's entries as a table.
func (r *Runner) writePlaylistTable(p *models.Playlist) error {
	rows := make([][]string, 0, len(p.Entries))
	for _, entry := range p.Entries {
		c := entry.Candidate
		bpm := ""
		if c.HasBPM() {
			bpm = fmt.Sprintf("%.0f", c.BPM)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", entry.Rank),
			c.Artist,
			c.Title,
			bpm,
			c.Label,
			fmt.Sprintf("%.3f", c.Score),
		})
	}

	return r.writeTable([]string{"#", "Artist", "Title", "BPM", "Label", "Score"}, rows)
}

// exportPlaylist writes a playlist in the requested format under dir.
func (r *Runner) exportPlaylist(p *models.Playlist, format, dir string) error {
	if dir == "" {
		dir = r.config.Export.Directory
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	name := p.Name
	var path string
	var data []byte
	var err error

	switch format {
	case "usb":
		export, err := formatter.WritePioneerExport(p, dir)
		if err != nil {
			return err
		}
		r.writePlain("\n✓ USB export written to %s\n", export.BaseDir)
		r.writePlain("  %s\n", export.XMLPath)
		r.writePlain("  %s\n", export.M3UPath)
		r.writePlain("  %s\n", export.TrackListPath)
		r.writePlain("Copy track files into %s before syncing.\n", export.MusicDir)
		return nil
	case "rekordbox", "xml":
		path = filepath.Join(dir, "rekordbox.xml")
		data, err = formatter.ExportToRekordboxXML(p)
	case "m3u":
		path = filepath.Join(dir, name+".m3u")
		data = formatter.ExportToM3U(p)
	case "txt":
		path = filepath.Join(dir, name+"_track_list.txt")
		data = formatter.ExportToTrackList(p)
	case "csv":
		path = filepath.Join(dir, name+".csv")
		data, err = formatter.ExportToCSV(p)
	default:
		return fmt.Errorf("%w: unknown export format '%s' (must be rekordbox, m3u, txt, csv, or usb)", shared.ErrInvalidFlag, format)
	}

	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	r.writePlain("\n✓ Playlist exported to %s\n", path)
	return nil
}
