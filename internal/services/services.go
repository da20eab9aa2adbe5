// package services defines interface Source for track discovery providers
//
// Perplexity (AI discovery), Beatport (catalog, labels, charts)
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"autodj/internal/models"
	"autodj/internal/shared"
)

// Source defines the interface for discovery providers that can produce
// candidate tracks for a style profile.
type Source interface {
	// Discover returns up to limit raw candidates matching the profile.
	// An empty result is valid; a provider failure wraps
	// shared.ErrSourceUnavailable.
	Discover(ctx context.Context, profile models.StyleProfile, limit int) ([]models.RawCandidate, error)

	// Name returns the provenance identifier recorded on candidates
	// (e.g. "perplexity", "beatport:charts").
	Name() string
}

const defaultTimeout = 30 * time.Second

// transport wraps a resty client with the shared per-source request policy:
// rate limiting, per-call timeout, and bounded retries on transient failures.
type transport struct {
	client  *resty.Client
	limiter *rate.Limiter
	timeout time.Duration
	retries int
}

// newTransport builds a transport from the discovery config, falling back to
// defaults for zero-valued fields.
func newTransport(cfg shared.DiscoveryConfig) *transport {
	t := &transport{
		client:  resty.New(),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		retries: cfg.Retries,
	}
	if t.timeout <= 0 {
		t.timeout = defaultTimeout
	}
	if cfg.RateLimit > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return t
}

// do executes one rate-limited request attempt plus up to retries more on
// error or 5xx status. 4xx responses are not retried; the provider will not
// change its mind.
func (t *transport) do(ctx context.Context, send func(ctx context.Context) (*resty.Response, error)) (*resty.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= t.retries; attempt++ {
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		resp, err := send(callCtx)
		cancel()

		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode() >= 500 {
			lastErr = fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode())
			continue
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode(), resp.String())
		}
		return resp, nil
	}

	return nil, lastErr
}
