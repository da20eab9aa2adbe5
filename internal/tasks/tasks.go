// package tasks implements the discovery and curation pipeline operations.
//
// DiscoveryEngine aggregates candidates from discovery sources, runs the
// curation transforms, and persists the results.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"autodj/internal/curation"
	"autodj/internal/models"
	"autodj/internal/services"
	"autodj/internal/shared"
)

// SourceResult summarizes one source's contribution to a discovery run.
type SourceResult struct {
	Name  string // Source provenance identifier
	Count int    // Raw candidates contributed
	Err   error  // Failure, nil on success
}

// DiscoveryReport contains all data from a discovery run.
type DiscoveryReport struct {
	Sources       []SourceResult     // Per-source outcomes, in configured order
	FailedSources []string           // Names of sources that errored
	RawCount      int                // Raw candidates before normalization
	Rejected      int                // Malformed records dropped by the normalizer
	Discovered    []models.Candidate // Scored, deduplicated candidates
	Saved         int                // Candidates persisted
}

// CurateOpts contains configuration for playlist curation.
type CurateOpts struct {
	TargetCount int     // Playlist slots to fill
	MinScore    float64 // Score floor for stored candidates
	Name        string  // Playlist name; empty uses profile name + date
	FlowOrder   bool    // Reorder the selected set by BPM proximity
}

// CurationReport contains all data from a curation run.
type CurationReport struct {
	Playlist  models.Playlist // Assembled, persisted playlist
	Requested int             // Slots requested
	Selected  int             // Entries actually filled
	Shortfall int             // Requested minus selected; 0 when fully filled
}

// SearchLogger records per-source discovery outcomes for the stats view.
type SearchLogger interface {
	LogSearch(source, query string, count int) error
}

// DiscoveryEngine orchestrates the pipeline: source fan-out, normalization,
// scoring, deduplication, persistence, and playlist curation.
type DiscoveryEngine struct {
	profile    models.StyleProfile
	sources    []services.Source
	normalizer *curation.Normalizer
	scorer     *curation.Scorer
	dedupe     *curation.Deduplicator
	assembler  *curation.Assembler
	candidates models.CandidateStore
	playlists  models.PlaylistStore
	history    SearchLogger
	limit      int
}

// NewDiscoveryEngine creates an engine wired with the curation components
// derived from config.
func NewDiscoveryEngine(
	cfg *shared.Config,
	profile models.StyleProfile,
	sources []services.Source,
	candidates models.CandidateStore,
	playlists models.PlaylistStore,
) *DiscoveryEngine {
	return &DiscoveryEngine{
		profile:    profile,
		sources:    sources,
		normalizer: curation.NewNormalizer(cfg.Matching),
		scorer:     curation.NewScorer(cfg.Scoring, nil),
		dedupe:     curation.NewDeduplicator(cfg.Matching),
		assembler:  curation.NewAssembler(profile),
		candidates: candidates,
		playlists:  playlists,
		limit:      cfg.Discovery.SourceLimit,
	}
}

// WithSearchLog attaches a search-history recorder. Logging failures are
// swallowed; history is advisory.
func (e *DiscoveryEngine) WithSearchLog(l SearchLogger) *DiscoveryEngine {
	e.history = l
	return e
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *DiscoveryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run executes a full discovery pass: validate the profile, query every
// source concurrently, normalize, score, dedupe, and persist.
//
// Profile validation failures are fatal and happen before any source call.
// A failed source is recorded and skipped; the run continues with whatever
// the remaining sources produced.
func (e *DiscoveryEngine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*DiscoveryReport, error) {
	if e.candidates == nil {
		return nil, fmt.Errorf("%w: candidate store not initialized", shared.ErrInvalidConfig)
	}
	if err := e.profile.Validate(); err != nil {
		return nil, err
	}

	report := &DiscoveryReport{}

	raws := e.collect(ctx, progress, report)
	report.RawCount = len(raws)

	e.sendProgress(progress, normalizeUpdate(len(raws)))
	candidates := make([]models.Candidate, 0, len(raws))
	for _, raw := range raws {
		c, err := e.normalizer.Normalize(raw)
		if err != nil {
			report.Rejected++
			continue
		}
		candidates = append(candidates, c)
	}

	e.sendProgress(progress, scoreUpdate(len(candidates)))
	for i := range candidates {
		candidates[i].Score = e.scorer.Score(candidates[i], e.profile)
	}

	deduped := e.dedupe.Dedupe(candidates)
	e.sendProgress(progress, dedupeUpdate(len(candidates), len(deduped)))

	e.sendProgress(progress, persistUpdate(len(deduped)))
	for i := range deduped {
		if err := e.save(&deduped[i]); err != nil {
			return report, fmt.Errorf("failed to save candidate %q: %w", deduped[i].IdentityKey(), err)
		}
		report.Saved++
	}

	report.Discovered = deduped
	return report, nil
}

// collect fans out one goroutine per source and joins the results in
// configured source order.
func (e *DiscoveryEngine) collect(ctx context.Context, progress chan<- ProgressUpdate, report *DiscoveryReport) []models.RawCandidate {
	e.sendProgress(progress, discoverStartUpdate(len(e.sources)))

	results := make([]SourceResult, len(e.sources))
	batches := make([][]models.RawCandidate, len(e.sources))

	var wg sync.WaitGroup
	for i, src := range e.sources {
		wg.Add(1)
		go func(i int, src services.Source) {
			defer wg.Done()
			raws, err := src.Discover(ctx, e.profile, e.limit)
			results[i] = SourceResult{Name: src.Name(), Count: len(raws), Err: err}
			batches[i] = raws
		}(i, src)
	}
	wg.Wait()

	var raws []models.RawCandidate
	for i, res := range results {
		if res.Err != nil {
			report.FailedSources = append(report.FailedSources, res.Name)
			e.sendProgress(progress, sourceFailedUpdate(i+1, len(e.sources), res.Name, res.Err))
		} else {
			raws = append(raws, batches[i]...)
			e.sendProgress(progress, sourceDoneUpdate(i+1, len(e.sources), res.Name, res.Count))
		}
		report.Sources = append(report.Sources, res)

		if e.history != nil {
			_ = e.history.LogSearch(res.Name, e.profile.Name, res.Count)
		}
	}
	return raws
}

// save upserts a candidate, folding in the provenance and discovery time of
// any previously stored record with the same identity key.
func (e *DiscoveryEngine) save(c *models.Candidate) error {
	existing, err := e.candidates.GetByIdentityKey(c.IdentityKey())
	if err == nil && existing != nil {
		c.ID = existing.ID
		for _, src := range existing.Provenance {
			if !c.HasProvenance(src) {
				c.Provenance = append(c.Provenance, src)
			}
		}
		if existing.DiscoveredAt.Before(c.DiscoveredAt) {
			c.DiscoveredAt = existing.DiscoveredAt
		}
	}

	if err := c.Validate(); err != nil {
		return err
	}
	return e.candidates.Save(c)
}

// Curate builds a playlist from stored candidates at or above the score
// floor: dedupe (idempotent on stored data), rank, select, assemble,
// persist.
func (e *DiscoveryEngine) Curate(ctx context.Context, progress chan<- ProgressUpdate, opts CurateOpts) (*CurationReport, error) {
	if e.candidates == nil || e.playlists == nil {
		return nil, fmt.Errorf("%w: stores not initialized", shared.ErrInvalidConfig)
	}
	if opts.TargetCount <= 0 {
		return nil, fmt.Errorf("%w: target count must be positive", shared.ErrInvalidInput)
	}

	stored, err := e.candidates.ListByMinScore(opts.MinScore)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	pool := make([]models.Candidate, 0, len(stored))
	for _, c := range stored {
		pool = append(pool, *c)
	}
	pool = e.dedupe.Dedupe(pool)

	e.sendProgress(progress, rankUpdate(len(pool), opts.TargetCount))
	curator := curation.NewCurator(e.profile, opts.FlowOrder)
	entries, shortfall := curator.Curate(pool, opts.TargetCount)

	playlist := e.assembler.Assemble(opts.Name, entries)
	if err := e.playlists.Create(&playlist); err != nil {
		return nil, fmt.Errorf("failed to persist playlist: %w", err)
	}
	e.sendProgress(progress, assembleUpdate(playlist.Name, len(entries)))

	return &CurationReport{
		Playlist:  playlist,
		Requested: opts.TargetCount,
		Selected:  len(entries),
		Shortfall: shortfall,
	}, nil
}
