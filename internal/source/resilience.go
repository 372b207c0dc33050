// Package source fetches the published skill catalog from its upstream
// GitHub repository.
package source

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Errors surfaced by the fetch client.
var (
	// ErrUpstreamUnavailable is returned when the circuit breaker has
	// tripped and calls are being shed.
	ErrUpstreamUnavailable = errors.New("upstream source unavailable")
)

// FetchClientConfig tunes the outbound HTTP client used for catalog
// fetches. These calls are batch work, not request-path work, so they
// retry aggressively compared to the API's own handlers.
type FetchClientConfig struct {
	// Name labels the circuit breaker.
	Name string

	// Timeout bounds each individual HTTP call. Default: 15s. Raw file
	// downloads can be slow, so this is looser than an API call budget.
	Timeout time.Duration

	// MaxRetries per request. Default: 3.
	MaxRetries uint64

	// InitialInterval for exponential backoff. Default: 500ms.
	InitialInterval time.Duration

	// MaxInterval caps the backoff. Default: 10s.
	MaxInterval time.Duration
}

// FetchClient wraps http.Client with exponential-backoff retries and a
// circuit breaker. Transport errors and 5xx responses are retried; any
// 4xx is returned to the caller untouched, since for GitHub a 403 means
// rate limiting and retrying it only burns more quota.
type FetchClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     FetchClientConfig
}

// NewFetchClient creates a fetch client with the given configuration.
func NewFetchClient(cfg FetchClientConfig) *FetchClient {
	if cfg.Name == "" {
		cfg.Name = "source"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
	})

	return &FetchClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		config:     cfg,
	}
}

// Do executes the request with retries and circuit breaking. The caller
// owns the response body.
func (c *FetchClient) Do(req *http.Request) (*http.Response, error) {
	return c.do(req.Context(), req)
}

func (c *FetchClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				r.Body.Close()
				return nil, &upstreamError{statusCode: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrUpstreamUnavailable)
			}
			return err
		}
		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return lastResp, nil
}

// BreakerState exposes the circuit breaker state for readiness checks.
func (c *FetchClient) BreakerState() gobreaker.State {
	return c.breaker.State()
}

type upstreamError struct {
	statusCode int
}

func (e *upstreamError) Error() string {
	return "upstream returned " + http.StatusText(e.statusCode)
}
