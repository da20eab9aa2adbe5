package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autodj/internal/models"
	"autodj/internal/shared"
)

func testProfile() models.StyleProfile {
	return models.StyleProfile{
		Name:    "Disco Lines",
		Genres:  []string{"tech house", "disco house"},
		BPMLow:  120,
		BPMHigh: 128,
		Artists: []string{"John Summit", "SIDEPIECE"},
		Labels:  []string{"Insomniac Records"},
	}
}

func TestPerplexitySource(t *testing.T) {
	t.Run("NewPerplexitySource", func(t *testing.T) {
		t.Run("Missing API Key", func(t *testing.T) {
			_, err := NewPerplexitySource(shared.PerplexityConfig{}, shared.DiscoveryConfig{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Default Model", func(t *testing.T) {
			src, err := NewPerplexitySource(shared.PerplexityConfig{APIKey: "key"}, shared.DiscoveryConfig{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if src.model != defaultPerplexityModel {
				t.Errorf("expected default model, got %s", src.model)
			}
			if src.Name() != "perplexity" {
				t.Errorf("unexpected source name %s", src.Name())
			}
		})
	})

	t.Run("ParseAnswer", func(t *testing.T) {
		src, _ := NewPerplexitySource(shared.PerplexityConfig{APIKey: "key"}, shared.DiscoveryConfig{})
		profile := testProfile()

		t.Run("Numbered Track Lines", func(t *testing.T) {
			answer := `Here are some tracks:

1. John Summit - La Danza
   genre: tech house
   label: Insomniac Records
   bpm: 126
2. Westend - Mercy
   genre: tech house
`
			got := src.parseAnswer(answer, profile)
			if len(got) != 2 {
				t.Fatalf("expected 2 candidates, got %d", len(got))
			}

			first := got[0]
			if first.Artist != "John Summit" || first.Title != "La Danza" {
				t.Errorf("unexpected first candidate %s - %s", first.Artist, first.Title)
			}
			if first.BPM != 126 {
				t.Errorf("expected BPM 126, got %.1f", first.BPM)
			}
			if first.Label != "Insomniac Records" {
				t.Errorf("expected label, got %q", first.Label)
			}
			if first.Source != "perplexity" {
				t.Errorf("expected perplexity provenance, got %q", first.Source)
			}
		})

		t.Run("Artist Entries With Track Lines", func(t *testing.T) {
			answer := `1. Dom Dolla
   genre: tech house
   track: San Frandisco
   track: Take It
`
			got := src.parseAnswer(answer, profile)
			if len(got) != 2 {
				t.Fatalf("expected one candidate per listed track, got %d", len(got))
			}
			if got[0].Title != "San Frandisco" || got[1].Title != "Take It" {
				t.Errorf("unexpected titles %q, %q", got[0].Title, got[1].Title)
			}
			for _, c := range got {
				if c.Artist != "Dom Dolla" {
					t.Errorf("expected artist Dom Dolla, got %q", c.Artist)
				}
			}
		})

		t.Run("Bulleted Lines", func(t *testing.T) {
			answer := "• SIDEPIECE - Baby Girl\n- Westend - Mercy\n* Noizu - Summer 91"
			got := src.parseAnswer(answer, profile)
			if len(got) != 3 {
				t.Fatalf("expected 3 candidates, got %d", len(got))
			}
		})

		t.Run("Prose Skipped", func(t *testing.T) {
			answer := "These artists are currently active in the scene.\nNo list here."
			if got := src.parseAnswer(answer, profile); len(got) != 0 {
				t.Errorf("expected no candidates from prose, got %d", len(got))
			}
		})

		t.Run("Short Names Dropped", func(t *testing.T) {
			answer := "1. AB\n2. John Summit - La Danza"
			got := src.parseAnswer(answer, profile)
			if len(got) != 1 {
				t.Fatalf("expected short artist entry dropped, got %d candidates", len(got))
			}
		})
	})

	t.Run("SimilarityHint", func(t *testing.T) {
		src, _ := NewPerplexitySource(shared.PerplexityConfig{APIKey: "key"}, shared.DiscoveryConfig{})
		profile := testProfile()

		t.Run("Base For No Overlap", func(t *testing.T) {
			hint := src.similarityHint(answerEntry{artist: "Somebody", title: "Something"}, profile)
			if hint != similarityBase {
				t.Errorf("expected base hint %.2f, got %.2f", similarityBase, hint)
			}
		})

		t.Run("Genre And Label Raise The Hint", func(t *testing.T) {
			plain := src.similarityHint(answerEntry{artist: "Somebody"}, profile)
			rich := src.similarityHint(answerEntry{
				artist: "Somebody",
				genre:  "tech house with disco influence",
				label:  "Insomniac",
			}, profile)
			if rich <= plain {
				t.Errorf("expected overlap to raise hint: %.2f vs %.2f", rich, plain)
			}
		})

		t.Run("Capped At One", func(t *testing.T) {
			hint := src.similarityHint(answerEntry{
				artist: "John Summit",
				genre:  "tech house disco house funk groove club dance",
				label:  "Insomniac Records",
				tracks: []string{"house anthem", "disco cut"},
			}, profile)
			if hint > 1.0 {
				t.Errorf("hint must cap at 1.0, got %.2f", hint)
			}
		})
	})

	t.Run("Discover", func(t *testing.T) {
		answer := "1. John Summit - La Danza\n   genre: tech house\n2. Westend - Mercy"

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
				t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + strings.ReplaceAll(answer, "\n", `\n`) + `"}}]}`))
		}))
		defer server.Close()

		src, _ := NewPerplexitySource(shared.PerplexityConfig{APIKey: "key"}, shared.DiscoveryConfig{})
		src.baseURL = server.URL

		got, err := src.Discover(context.Background(), testProfile(), 10)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(got))
		}

		t.Run("Limit Truncates", func(t *testing.T) {
			got, err := src.Discover(context.Background(), testProfile(), 1)
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
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		src, _ := NewPerplexitySource(shared.PerplexityConfig{APIKey: "key"}, shared.DiscoveryConfig{})
		src.baseURL = server.URL

		_, err := src.Discover(context.Background(), testProfile(), 10)
		if !errors.Is(err, shared.ErrSourceUnavailable) {
			t.Errorf("expected ErrSourceUnavailable, got %v", err)
		}
	})
}
