package main

import (
	"context"
	"fmt"
	"strings"

	"autodj/internal/repositories"
	"autodj/internal/shared"

	"github.com/urfave/cli/v3"
)

// Tracks lists stored candidates above a score threshold as a table.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	if r.candidates == nil {
		return fmt.Errorf("%w: database not initialized, run 'autodj setup database' first", shared.ErrMissingConfig)
	}

	minScore := cmd.Float("min-score")
	limit := int(cmd.Int("limit"))

	candidates, err := r.candidates.ListByMinScore(minScore)
	if err != nil {
		return fmt.Errorf("failed to list candidates: %w", err)
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidates, true)
	}

	if len(candidates) == 0 {
		r.writePlain("No candidates with score ≥ %.2f. Run 'autodj discover' first.\n", minScore)
		return nil
	}

	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		bpm := ""
		if c.HasBPM() {
			bpm = fmt.Sprintf("%.0f", c.BPM)
		}
		pop := ""
		if c.Popularity > 0 {
			pop = fmt.Sprintf("%.2f", c.Popularity)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			c.Artist,
			c.Title,
			bpm,
			c.Key,
			c.Label,
			fmt.Sprintf("%.3f", c.Score),
			pop,
			strings.Join(c.Provenance, ", "),
		})
	}

	if err := r.writeTable([]string{"#", "Artist", "Title", "BPM", "Key", "Label", "Score", "Pop", "Sources"}, rows); err != nil {
		return err
	}

	r.writePlain("%d candidate(s) with score ≥ %.2f\n", len(candidates), minScore)
	return nil
}

// Stats shows database statistics.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return fmt.Errorf("%w: database not initialized, run 'autodj setup database' first", shared.ErrMissingConfig)
	}

	stats, err := repositories.CollectStats(r.db)
	if err != nil {
		return fmt.Errorf("failed to collect stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	rows := [][]string{
		{"Candidates", fmt.Sprintf("%d", stats.Candidates)},
		{"With BPM", fmt.Sprintf("%d", stats.WithBPM)},
		{"Average score", fmt.Sprintf("%.3f", stats.AverageScore)},
		{"Playlists", fmt.Sprintf("%d", stats.Playlists)},
		{"Searches logged", fmt.Sprintf("%d", stats.SearchesLogged)},
	}

	return r.writeTable([]string{"Metric", "Value"}, rows)
}
