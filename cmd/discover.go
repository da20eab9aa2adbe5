package main

import (
	"context"
	"fmt"

	"autodj/internal/shared"
	"autodj/internal/tasks"

	"github.com/urfave/cli/v3"
)

// Discover runs the full discovery pipeline: source fan-out, normalization,
// scoring, deduplication, and persistence.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	if len(r.sources) == 0 {
		return fmt.Errorf("%w: no discovery sources configured, add credentials to config.toml or .env", shared.ErrMissingCredentials)
	}

	if count := cmd.Int("count"); count > 0 {
		r.config.Discovery.SourceLimit = int(count)
	}

	engine, err := r.engine()
	if err != nil {
		return err
	}

	r.logger.Info("starting discovery", "profile", r.profile.Name, "sources", len(r.sources))
	r.writePlain("Discovering tracks for profile: %s\n\n", r.profile.Name)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.DiscoverSources:
				if update.Step == 0 {
					r.writePlain("📡 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.NormalizeCandidates, tasks.ScoreCandidates, tasks.DedupeCandidates, tasks.PersistCandidates:
				r.writePlain("⚙  %s\n", update.Message)
			}
		}
	}()

	report, err := engine.Run(ctx, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	r.writePlainHeader("Discovery Complete")
	r.writePlain("Raw candidates: %d\n", report.RawCount)
	r.writePlain("Rejected as malformed: %d\n", report.Rejected)
	r.writePlain("After deduplication: %d\n", len(report.Discovered))
	r.writePlain("Saved: %s\n", okStyle.Render(fmt.Sprintf("%d", report.Saved)))

	if len(report.FailedSources) > 0 {
		r.writePlain("\n%s\n", warnStyle.Render(fmt.Sprintf("%d source(s) failed:", len(report.FailedSources))))
		for _, result := range report.Sources {
			if result.Err != nil {
				r.writePlain("  ✗ %s: %v\n", result.Name, result.Err)
			}
		}
	}

	return nil
}
