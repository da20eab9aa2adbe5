package tasks

import (
	"context"
	"errors"
	"testing"

	"autodj/internal/models"
	"autodj/internal/services"
	"autodj/internal/shared"
	th "autodj/internal/testing"
)

func testConfig() *shared.Config {
	cfg := shared.DefaultConfig()
	cfg.Discovery.SourceLimit = 10
	return cfg
}

func testProfile() models.StyleProfile {
	return models.StyleProfile{
		Name:    "Disco Lines",
		Genres:  []string{"tech house"},
		BPMLow:  120,
		BPMHigh: 128,
		Artists: []string{"John Summit", "SIDEPIECE"},
		Labels:  []string{"Insomniac Records"},
	}
}

func newTestEngine(sources []services.Source) (*DiscoveryEngine, *th.MemoryCandidateStore, *th.MemoryPlaylistStore) {
	candidates := th.NewMemoryCandidateStore()
	playlists := th.NewMemoryPlaylistStore()
	engine := NewDiscoveryEngine(testConfig(), testProfile(), sources, candidates, playlists)
	return engine, candidates, playlists
}

func TestDiscoveryEngine_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Aggregates Sources", func(t *testing.T) {
		perplexity := &th.MockSource{
			SourceName: "perplexity",
			Candidates: []models.RawCandidate{
				{Artist: "John Summit", Title: "La Danza", Source: "perplexity", SimilarityHint: 0.9},
				{Artist: "SIDEPIECE", Title: "Baby Girl (Radio Edit)", Source: "perplexity", SimilarityHint: 0.8},
			},
		}
		beatport := &th.MockSource{
			SourceName: "beatport:charts",
			Candidates: []models.RawCandidate{
				{Artist: "SIDEPIECE", Title: "Baby Girl", BPM: 124, Label: "Insomniac Records", Source: "beatport:charts", SimilarityHint: -1},
			},
		}

		engine, store, _ := newTestEngine([]services.Source{perplexity, beatport})

		report, err := engine.Run(ctx, nil)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if report.RawCount != 3 {
			t.Errorf("expected 3 raw candidates, got %d", report.RawCount)
		}
		if len(report.Discovered) != 2 {
			t.Fatalf("expected 2 deduped candidates, got %d", len(report.Discovered))
		}
		if report.Saved != 2 || store.Len() != 2 {
			t.Errorf("expected 2 saved candidates, got report %d store %d", report.Saved, store.Len())
		}
		if len(report.FailedSources) != 0 {
			t.Errorf("expected no failed sources, got %v", report.FailedSources)
		}
		if perplexity.LastLimit != 10 {
			t.Errorf("expected configured source limit 10, got %d", perplexity.LastLimit)
		}

		for _, c := range report.Discovered {
			if !c.Scored() {
				t.Errorf("candidate %q reached the report unscored", c.IdentityKey())
			}
			if c.IdentityKey() == "baby girl|sidepiece" && len(c.Provenance) != 2 {
				t.Errorf("merged candidate should carry both sources, got %v", c.Provenance)
			}
		}
	})

	t.Run("Failed Source Continues", func(t *testing.T) {
		healthy := &th.MockSource{
			SourceName: "beatport:labels",
			Candidates: []models.RawCandidate{
				{Artist: "Westend", Title: "Mercy", BPM: 125, Source: "beatport:labels", SimilarityHint: -1},
			},
		}
		broken := &th.MockSource{
			SourceName: "perplexity",
			Err:        shared.ErrSourceUnavailable,
		}

		engine, _, _ := newTestEngine([]services.Source{broken, healthy})

		report, err := engine.Run(ctx, nil)
		if err != nil {
			t.Fatalf("a failed source must not abort the run: %v", err)
		}
		if len(report.FailedSources) != 1 || report.FailedSources[0] != "perplexity" {
			t.Errorf("expected perplexity recorded as failed, got %v", report.FailedSources)
		}
		if len(report.Discovered) != 1 {
			t.Errorf("expected candidates from the healthy source, got %d", len(report.Discovered))
		}
	})

	t.Run("Invalid Profile Is Fatal Before Sources", func(t *testing.T) {
		src := &th.MockSource{SourceName: "perplexity"}
		candidates := th.NewMemoryCandidateStore()
		engine := NewDiscoveryEngine(testConfig(), models.StyleProfile{}, []services.Source{src}, candidates, th.NewMemoryPlaylistStore())

		_, err := engine.Run(ctx, nil)
		if !errors.Is(err, shared.ErrInvalidProfile) {
			t.Fatalf("expected ErrInvalidProfile, got %v", err)
		}
		if src.Calls != 0 {
			t.Errorf("no source may be contacted with an invalid profile")
		}
	})

	t.Run("Malformed Candidates Counted", func(t *testing.T) {
		src := &th.MockSource{
			SourceName: "perplexity",
			Candidates: []models.RawCandidate{
				{Artist: "", Title: "", Source: "perplexity"},
				{Artist: "Dom Dolla", Title: "Take It", Source: "perplexity", SimilarityHint: 0.7},
			},
		}

		engine, _, _ := newTestEngine([]services.Source{src})

		report, err := engine.Run(ctx, nil)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if report.Rejected != 1 {
			t.Errorf("expected 1 rejected record, got %d", report.Rejected)
		}
		if len(report.Discovered) != 1 {
			t.Errorf("expected 1 surviving candidate, got %d", len(report.Discovered))
		}
	})

	t.Run("Rerun Upserts By Identity Key", func(t *testing.T) {
		first := &th.MockSource{
			SourceName: "perplexity",
			Candidates: []models.RawCandidate{
				{Artist: "SIDEPIECE", Title: "Baby Girl", Source: "perplexity", SimilarityHint: 0.8},
			},
		}

		engine, store, _ := newTestEngine([]services.Source{first})
		if _, err := engine.Run(ctx, nil); err != nil {
			t.Fatalf("first run failed: %v", err)
		}

		first.SourceName = "beatport:charts"
		first.Candidates[0].Source = "beatport:charts"
		first.Candidates[0].BPM = 124

		if _, err := engine.Run(ctx, nil); err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		if store.Len() != 1 {
			t.Fatalf("rerun must upsert, not duplicate: %d rows", store.Len())
		}
		stored, err := store.GetByIdentityKey("baby girl|sidepiece")
		if err != nil {
			t.Fatalf("candidate missing after rerun: %v", err)
		}
		if len(stored.Provenance) != 2 {
			t.Errorf("expected provenance union across runs, got %v", stored.Provenance)
		}
	})

	t.Run("Progress Never Blocks", func(t *testing.T) {
		src := &th.MockSource{
			SourceName: "perplexity",
			Candidates: []models.RawCandidate{
				{Artist: "John Summit", Title: "La Danza", Source: "perplexity", SimilarityHint: 0.9},
			},
		}

		engine, _, _ := newTestEngine([]services.Source{src})

		// Nobody drains this channel; the run must still complete.
		progress := make(chan ProgressUpdate, 1)
		if _, err := engine.Run(ctx, progress); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	})
}

func TestDiscoveryEngine_Curate(t *testing.T) {
	ctx := context.Background()

	seed := func(store *th.MemoryCandidateStore, n int, score float64) {
		for i := 0; i < n; i++ {
			c := models.Candidate{
				ID:        shared.GenerateID(),
				Artist:    "Artist",
				Title:     string(rune('A' + i)),
				KeyArtist: "artist",
				KeyTitle:  string(rune('a' + i)),
				BPM:       121 + float64(i%8),
				Score:     score,
			}
			if err := store.Save(&c); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}
	}

	t.Run("Builds And Persists Playlist", func(t *testing.T) {
		engine, store, playlists := newTestEngine(nil)
		seed(store, 30, 0.8)

		report, err := engine.Curate(ctx, nil, CurateOpts{TargetCount: 25, MinScore: 0.5, Name: "Festival Warmup"})
		if err != nil {
			t.Fatalf("Curate failed: %v", err)
		}

		if report.Selected != 25 || report.Shortfall != 0 {
			t.Errorf("expected 25 selected with no shortfall, got %d/%d", report.Selected, report.Shortfall)
		}
		if report.Playlist.Name != "Festival Warmup" {
			t.Errorf("unexpected playlist name %q", report.Playlist.Name)
		}
		if err := report.Playlist.Validate(); err != nil {
			t.Errorf("persisted playlist should validate: %v", err)
		}
		if len(playlists.Playlists) != 1 {
			t.Errorf("expected playlist persisted, got %d", len(playlists.Playlists))
		}
	})

	t.Run("Reports Shortfall", func(t *testing.T) {
		engine, store, _ := newTestEngine(nil)
		seed(store, 18, 0.7)

		report, err := engine.Curate(ctx, nil, CurateOpts{TargetCount: 25, MinScore: 0.5})
		if err != nil {
			t.Fatalf("a shortfall is not an error: %v", err)
		}
		if report.Selected != 18 {
			t.Errorf("expected all 18 candidates selected, got %d", report.Selected)
		}
		if report.Shortfall != 7 {
			t.Errorf("expected shortfall 7, got %d", report.Shortfall)
		}
	})

	t.Run("Min Score Filters", func(t *testing.T) {
		engine, store, _ := newTestEngine(nil)
		seed(store, 5, 0.9)

		low := models.Candidate{
			ID:        shared.GenerateID(),
			Artist:    "Filler",
			Title:     "Background",
			KeyArtist: "filler",
			KeyTitle:  "background",
			Score:     0.2,
		}
		if err := store.Save(&low); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		report, err := engine.Curate(ctx, nil, CurateOpts{TargetCount: 10, MinScore: 0.5})
		if err != nil {
			t.Fatalf("Curate failed: %v", err)
		}
		if report.Selected != 5 {
			t.Errorf("low-scored candidate must be filtered, got %d selected", report.Selected)
		}
	})

	t.Run("Invalid Target Count", func(t *testing.T) {
		engine, _, _ := newTestEngine(nil)

		_, err := engine.Curate(ctx, nil, CurateOpts{TargetCount: 0})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Default Playlist Name", func(t *testing.T) {
		engine, store, _ := newTestEngine(nil)
		seed(store, 3, 0.8)

		report, err := engine.Curate(ctx, nil, CurateOpts{TargetCount: 3, MinScore: 0})
		if err != nil {
			t.Fatalf("Curate failed: %v", err)
		}
		if report.Playlist.Name == "" {
			t.Errorf("empty name should fall back to profile name + date")
		}
	})
}
