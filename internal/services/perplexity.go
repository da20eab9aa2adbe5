// Perplexity chat-completions implementation of [Source]
//
// https://docs.perplexity.ai/api-reference/chat-completions
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"autodj/internal/models"
	"autodj/internal/shared"
)

const (
	perplexityBaseURL      = "https://api.perplexity.ai/chat/completions"
	defaultPerplexityModel = "llama-3.1-sonar-small-128k-online"

	similarityBase      = 0.5
	genreMentionBonus   = 0.2
	artistMentionBonus  = 0.15
	labelMentionBonus   = 0.1
	keyTermBonus        = 0.05
	similarityHintFloor = 0.1
)

// keyTerms are generic style words that nudge the similarity hint up when the
// answer text mentions them.
var keyTerms = []string{"disco", "funk", "groove", "tech house", "house", "club", "dance"}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityRequest struct {
	Model       string              `json:"model"`
	Messages    []perplexityMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature float64             `json:"temperature"`
}

type perplexityChoice struct {
	Message perplexityMessage `json:"message"`
}

type perplexityResponse struct {
	Choices []perplexityChoice `json:"choices"`
}

// PerplexitySource discovers candidates by asking an online LLM for tracks
// matching the style profile and parsing the free-text answer.
type PerplexitySource struct {
	apiKey    string
	model     string
	baseURL   string
	transport *transport
}

// NewPerplexitySource creates a Perplexity discovery source.
func NewPerplexitySource(creds shared.PerplexityConfig, discovery shared.DiscoveryConfig) (*PerplexitySource, error) {
	if creds.APIKey == "" {
		return nil, fmt.Errorf("%w: perplexity api_key", shared.ErrMissingCredentials)
	}

	model := creds.Model
	if model == "" {
		model = defaultPerplexityModel
	}

	return &PerplexitySource{
		apiKey:    creds.APIKey,
		model:     model,
		baseURL:   perplexityBaseURL,
		transport: newTransport(discovery),
	}, nil
}

func (s *PerplexitySource) Name() string {
	return "perplexity"
}

// Discover asks for tracks matching the profile and parses the answer.
func (s *PerplexitySource) Discover(ctx context.Context, profile models.StyleProfile, limit int) ([]models.RawCandidate, error) {
	payload := perplexityRequest{
		Model: s.model,
		Messages: []perplexityMessage{
			{
				Role:    "system",
				Content: "You are a music discovery expert specializing in electronic music. Provide accurate, current information about artists, tracks, and the electronic music scene.",
			},
			{
				Role:    "user",
				Content: s.buildPrompt(profile, limit),
			},
		},
		MaxTokens:   2000,
		Temperature: 0.3,
	}

	var result perplexityResponse
	_, err := s.transport.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		return s.transport.client.R().
			SetContext(ctx).
			SetAuthToken(s.apiKey).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			SetResult(&result).
			Post(s.baseURL)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: perplexity: %v", shared.ErrSourceUnavailable, err)
	}

	if len(result.Choices) == 0 {
		return nil, nil
	}

	candidates := s.parseAnswer(result.Choices[0].Message.Content, profile)
	if len(candidates) > limit && limit > 0 {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (s *PerplexitySource) buildPrompt(profile models.StyleProfile, limit int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Find up to %d tracks matching the %q sound: %s, BPM %g-%g.\n",
		limit, profile.Name, strings.Join(profile.Genres, ", "), profile.BPMLow, profile.BPMHigh)
	if len(profile.Artists) > 0 {
		fmt.Fprintf(&b, "Focus on artists similar to %s.\n", strings.Join(head(profile.Artists, 5), ", "))
	}
	if len(profile.Labels) > 0 {
		fmt.Fprintf(&b, "Prefer releases on labels like %s.\n", strings.Join(head(profile.Labels, 3), ", "))
	}
	if len(profile.ReferenceTracks) > 0 {
		fmt.Fprintf(&b, "Reference tracks: %s.\n", strings.Join(head(profile.ReferenceTracks, 5), ", "))
	}
	b.WriteString("List each track as a numbered line in the form \"Artist - Title\". ")
	b.WriteString("On following indented lines you may add genre:, label:, and bpm: details.")

	return b.String()
}

// answerEntry accumulates one numbered/bulleted block of the answer text.
type answerEntry struct {
	artist string
	title  string
	genre  string
	label  string
	bpm    float64
	tracks []string
}

// parseAnswer extracts candidates from the model's free-text answer. The
// answer alternates entry lines ("1. Artist - Title" or a bullet) with
// optional detail lines ("genre: ...", "label: ...", "bpm: ...").
func (s *PerplexitySource) parseAnswer(content string, profile models.StyleProfile) []models.RawCandidate {
	var entries []answerEntry
	var current *answerEntry

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, ok := stripListPrefix(line); ok {
			entries = append(entries, answerEntry{})
			current = &entries[len(entries)-1]
			current.artist, current.title = splitArtistTitle(name)
			continue
		}
		if current == nil {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case hasFieldPrefix(lower, "genre", "style", "sound"):
			current.genre = fieldValue(line)
		case hasFieldPrefix(lower, "label", "record"):
			current.label = fieldValue(line)
		case hasFieldPrefix(lower, "track", "release", "song", "hit"):
			current.tracks = append(current.tracks, fieldValue(line))
		case hasFieldPrefix(lower, "bpm", "tempo"):
			if v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(fieldValue(lower), "bpm")), 64); err == nil {
				current.bpm = v
			}
		}
	}

	var out []models.RawCandidate
	for _, e := range entries {
		if len(e.artist) <= 2 && e.title == "" {
			continue
		}
		hint := s.similarityHint(e, profile)

		if e.title == "" && len(e.tracks) > 0 {
			// Artist entry with listed tracks becomes one candidate per track.
			for _, title := range e.tracks {
				out = append(out, s.candidate(e, e.artist, title, hint))
			}
			continue
		}
		out = append(out, s.candidate(e, e.artist, e.title, hint))
	}
	return out
}

func (s *PerplexitySource) candidate(e answerEntry, artist, title string, hint float64) models.RawCandidate {
	return models.RawCandidate{
		Artist:         artist,
		Title:          title,
		BPM:            e.bpm,
		Genre:          e.genre,
		Label:          e.label,
		Source:         s.Name(),
		SimilarityHint: hint,
	}
}

// similarityHint estimates how close an answer entry is to the profile from
// keyword overlap: base 0.5 plus bonuses per matched genre, reference artist,
// label, and generic style term, capped at 1.0.
func (s *PerplexitySource) similarityHint(e answerEntry, profile models.StyleProfile) float64 {
	text := strings.ToLower(e.artist + " " + e.title + " " + e.genre + " " + strings.Join(e.tracks, " "))

	hint := similarityBase
	for _, genre := range profile.Genres {
		if strings.Contains(text, strings.ToLower(genre)) {
			hint += genreMentionBonus
		}
	}
	for _, artist := range profile.Artists {
		if strings.Contains(text, strings.ToLower(artist)) {
			hint += artistMentionBonus
		}
	}
	if e.label != "" {
		label := strings.ToLower(e.label)
		for _, ref := range profile.Labels {
			if strings.Contains(label, strings.ToLower(ref)) || strings.Contains(strings.ToLower(ref), label) {
				hint += labelMentionBonus
				break
			}
		}
	}
	for _, term := range keyTerms {
		if strings.Contains(text, term) {
			hint += keyTermBonus
		}
	}

	if hint > 1.0 {
		return 1.0
	}
	if hint < similarityHintFloor {
		return similarityHintFloor
	}
	return hint
}

// stripListPrefix removes a numbered or bulleted list marker, reporting
// whether the line was a list entry.
func stripListPrefix(line string) (string, bool) {
	for _, bullet := range []string{"• ", "- ", "* "} {
		if rest, ok := strings.CutPrefix(line, bullet); ok {
			return strings.TrimSpace(rest), true
		}
	}

	dot := strings.Index(line, ".")
	if dot <= 0 || dot > 3 {
		return "", false
	}
	if _, err := strconv.Atoi(line[:dot]); err != nil {
		return "", false
	}
	return strings.TrimSpace(line[dot+1:]), true
}

// splitArtistTitle splits "Artist - Title", tolerating bold markers and a
// missing title.
func splitArtistTitle(name string) (string, string) {
	name = strings.Trim(name, "*_ ")
	if artist, title, ok := strings.Cut(name, " - "); ok {
		return strings.TrimSpace(artist), strings.TrimSpace(title)
	}
	// A colon after the name introduces commentary, not a title.
	if artist, _, ok := strings.Cut(name, ":"); ok {
		return strings.TrimSpace(artist), ""
	}
	return name, ""
}

func hasFieldPrefix(line string, names ...string) bool {
	for _, n := range names {
		if strings.HasPrefix(line, n+":") {
			return true
		}
	}
	return false
}

func fieldValue(line string) string {
	_, v, _ := strings.Cut(line, ":")
	return strings.TrimSpace(v)
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
