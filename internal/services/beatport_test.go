package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"autodj/internal/shared"
)

func TestBeatportSource(t *testing.T) {
	creds := shared.BeatportConfig{ClientID: "id", ClientSecret: "secret"}

	t.Run("NewBeatportSource", func(t *testing.T) {
		t.Run("Missing Credentials", func(t *testing.T) {
			_, err := NewBeatportSource(ModeLabelReleases, shared.BeatportConfig{}, shared.DiscoveryConfig{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Mode Names", func(t *testing.T) {
			modes := map[DiscoveryMode]string{
				ModeLabelReleases: "beatport:labels",
				ModeArtistTracks:  "beatport:artists",
				ModeGenreCharts:   "beatport:charts",
			}
			for mode, want := range modes {
				src, err := NewBeatportSource(mode, creds, shared.DiscoveryConfig{})
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if src.Name() != want {
					t.Errorf("expected name %q, got %q", want, src.Name())
				}
			}
		})
	})

	t.Run("Queries", func(t *testing.T) {
		profile := testProfile()

		tests := []struct {
			mode  DiscoveryMode
			want  int
			first string
		}{
			{ModeLabelReleases, 1, "label:Insomniac Records"},
			{ModeArtistTracks, 2, "artist:John Summit"},
			{ModeGenreCharts, 2, "genre:tech house"},
		}

		for _, tt := range tests {
			src, _ := NewBeatportSource(tt.mode, creds, shared.DiscoveryConfig{})
			queries := src.queries(profile)
			if len(queries) != tt.want {
				t.Errorf("mode %s: expected %d queries, got %d", tt.mode, tt.want, len(queries))
			}
			if queries[0] != tt.first {
				t.Errorf("mode %s: expected first query %q, got %q", tt.mode, tt.first, queries[0])
			}
		}
	})

	t.Run("ChartPopularity", func(t *testing.T) {
		tests := []struct {
			position int
			want     float64
		}{
			{1, 1.0},
			{11, 0.9},
			{51, 0.5},
			{100, 0.1},
		}
		for _, tt := range tests {
			if got := chartPopularity(tt.position); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("chartPopularity(%d) = %.3f, want %.3f", tt.position, got, tt.want)
			}
		}
	})

	t.Run("Discover", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-token" {
				t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
			}
			if r.URL.Path != "/catalog/search" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"tracks":[
				{"id":101,"name":"La Danza","slug":"la-danza","artists":[{"name":"John Summit"}],"bpm":126,
				 "key":{"name":"A min"},"genre":{"name":"Tech House"},"label":{"name":"Insomniac Records"}},
				{"id":102,"name":"Mercy","slug":"mercy","artists":[{"name":"Westend"},{"name":"Nikki Ambers"}],"bpm":125}
			]}`))
		}))
		defer server.Close()

		src, err := NewBeatportSource(ModeGenreCharts, creds, shared.DiscoveryConfig{})
		if err != nil {
			t.Fatalf("failed to create source: %v", err)
		}
		src.baseURL = server.URL
		src.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})

		profile := testProfile()
		profile.Genres = []string{"tech house"}

		got, err := src.Discover(context.Background(), profile, 10)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(got))
		}

		first := got[0]
		if first.Artist != "John Summit" || first.Title != "La Danza" {
			t.Errorf("unexpected candidate %s - %s", first.Artist, first.Title)
		}
		if first.Key != "A min" || first.Genre != "Tech House" || first.Label != "Insomniac Records" {
			t.Errorf("metadata not mapped: %+v", first)
		}
		if first.URL != "https://www.beatport.com/track/la-danza/101" {
			t.Errorf("unexpected URL %s", first.URL)
		}
		if first.Popularity != 1.0 {
			t.Errorf("chart position 1 should map to popularity 1.0, got %.2f", first.Popularity)
		}
		if first.SimilarityHint >= 0 {
			t.Errorf("catalog candidates carry no similarity hint")
		}

		second := got[1]
		if second.Artist != "Westend, Nikki Ambers" {
			t.Errorf("expected joined artists, got %q", second.Artist)
		}
		if second.Key != "" || second.Label != "" {
			t.Errorf("missing metadata should stay empty: %+v", second)
		}

		t.Run("Limit Truncates", func(t *testing.T) {
			got, err := src.Discover(context.Background(), profile, 1)
			if err != nil {
				t.Fatalf("Discover failed: %v", err)
			}
			if len(got) != 1 {
				t.Errorf("expected 1 candidate, got %d", len(got))
			}
		})
	})

	t.Run("Discover Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		src, _ := NewBeatportSource(ModeArtistTracks, creds, shared.DiscoveryConfig{})
		src.baseURL = server.URL
		src.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})

		_, err := src.Discover(context.Background(), testProfile(), 5)
		if !errors.Is(err, shared.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})

	t.Run("Empty Profile Slice", func(t *testing.T) {
		src, _ := NewBeatportSource(ModeLabelReleases, creds, shared.DiscoveryConfig{})

		profile := testProfile()
		profile.Labels = nil

		got, err := src.Discover(context.Background(), profile, 5)
		if err != nil {
			t.Errorf("empty query set should not error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no candidates, got %d", len(got))
		}
	})
}
