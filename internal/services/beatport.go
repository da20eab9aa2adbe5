// Beatport catalog API implementation of [Source]
//
// Beatport API response types based on https://api.beatport.com/v4/docs/
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"autodj/internal/models"
	"autodj/internal/shared"
)

const (
	beatportBaseURL  = "https://api.beatport.com/v4"
	beatportTokenURL = "https://api.beatport.com/v4/auth/o/token/"

	chartNeutralPopularity = 0.5
)

// DiscoveryMode selects which slice of the Beatport catalog a
// [BeatportSource] instance queries.
type DiscoveryMode int

const (
	// ModeLabelReleases searches releases from the profile's reference labels.
	ModeLabelReleases DiscoveryMode = iota
	// ModeArtistTracks searches tracks by the profile's reference artists.
	ModeArtistTracks
	// ModeGenreCharts walks the top-100 chart per profile genre; chart
	// position becomes a popularity signal.
	ModeGenreCharts
)

func (m DiscoveryMode) String() string {
	switch m {
	case ModeLabelReleases:
		return "labels"
	case ModeArtistTracks:
		return "artists"
	case ModeGenreCharts:
		return "charts"
	default:
		return "unknown"
	}
}

type beatportNamed struct {
	Name string `json:"name"`
}

// BeatportTrack represents a track in a Beatport catalog response.
type BeatportTrack struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Slug    string          `json:"slug"`
	Artists []beatportNamed `json:"artists"`
	BPM     float64         `json:"bpm"`
	Key     *beatportNamed  `json:"key"`
	Genre   *beatportNamed  `json:"genre"`
	Label   *beatportNamed  `json:"label"`
}

// BeatportSearchResponse represents a catalog search response page.
type BeatportSearchResponse struct {
	Tracks []BeatportTrack `json:"tracks"`
}

// BeatportSource discovers candidates from the Beatport catalog API. Each
// instance serves one [DiscoveryMode]; the engine runs one per mode.
type BeatportSource struct {
	mode      DiscoveryMode
	tokens    oauth2.TokenSource
	baseURL   string
	transport *transport
}

// NewBeatportSource creates a Beatport discovery source for the given mode,
// authenticating with the OAuth2 client-credentials flow.
func NewBeatportSource(mode DiscoveryMode, creds shared.BeatportConfig, discovery shared.DiscoveryConfig) (*BeatportSource, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: beatport client_id/client_secret", shared.ErrMissingCredentials)
	}

	conf := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     beatportTokenURL,
	}

	return &BeatportSource{
		mode:      mode,
		tokens:    conf.TokenSource(context.Background()),
		baseURL:   beatportBaseURL,
		transport: newTransport(discovery),
	}, nil
}

func (s *BeatportSource) Name() string {
	return "beatport:" + s.mode.String()
}

// Discover runs the mode's catalog queries until limit candidates are
// collected or the queries are exhausted.
func (s *BeatportSource) Discover(ctx context.Context, profile models.StyleProfile, limit int) ([]models.RawCandidate, error) {
	queries := s.queries(profile)
	if len(queries) == 0 {
		return nil, nil
	}

	var out []models.RawCandidate
	for _, q := range queries {
		if limit > 0 && len(out) >= limit {
			break
		}

		tracks, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for pos, track := range tracks {
			if limit > 0 && len(out) >= limit {
				break
			}
			out = append(out, s.candidate(track, pos))
		}
	}
	return out, nil
}

// queries maps the profile onto catalog search terms for this mode.
func (s *BeatportSource) queries(profile models.StyleProfile) []string {
	switch s.mode {
	case ModeLabelReleases:
		return prefixed("label:", profile.Labels)
	case ModeArtistTracks:
		return prefixed("artist:", profile.Artists)
	case ModeGenreCharts:
		return prefixed("genre:", profile.Genres)
	default:
		return nil
	}
}

func (s *BeatportSource) search(ctx context.Context, query string, limit int) ([]BeatportTrack, error) {
	token, err := s.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: beatport auth: %v", shared.ErrSourceUnavailable, err)
	}

	params := map[string]string{
		"q":        query,
		"type":     "tracks",
		"per_page": strconv.Itoa(limit),
	}
	if s.mode == ModeGenreCharts {
		// Chart order: most popular first, positions map to popularity.
		params["order_by"] = "-popularity"
		params["per_page"] = "100"
	}

	var result BeatportSearchResponse
	_, err = s.transport.do(ctx, func(ctx context.Context) (*resty.Response, error) {
		return s.transport.client.R().
			SetContext(ctx).
			SetAuthToken(token.AccessToken).
			SetQueryParams(params).
			SetResult(&result).
			Get(s.baseURL + "/catalog/search")
	})
	if err != nil {
		return nil, fmt.Errorf("%w: beatport %s: %v", shared.ErrSourceUnavailable, s.mode, err)
	}

	return result.Tracks, nil
}

func (s *BeatportSource) candidate(track BeatportTrack, position int) models.RawCandidate {
	c := models.RawCandidate{
		Artist:         joinArtists(track.Artists),
		Title:          track.Name,
		BPM:            track.BPM,
		URL:            fmt.Sprintf("https://www.beatport.com/track/%s/%d", track.Slug, track.ID),
		Source:         s.Name(),
		Popularity:     chartNeutralPopularity,
		SimilarityHint: -1,
	}
	if track.Key != nil {
		c.Key = track.Key.Name
	}
	if track.Genre != nil {
		c.Genre = track.Genre.Name
	}
	if track.Label != nil {
		c.Label = track.Label.Name
	}
	if s.mode == ModeGenreCharts {
		c.Popularity = chartPopularity(position + 1)
	}
	return c
}

// chartPopularity maps a 1-based chart position to a popularity signal:
// position 1 scores highest and nothing falls below 0.1.
func chartPopularity(position int) float64 {
	p := 1.0 - float64(position-1)/100
	if p < 0.1 {
		return 0.1
	}
	return p
}

func joinArtists(artists []beatportNamed) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func prefixed(prefix string, terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, prefix+t)
	}
	return out
}
