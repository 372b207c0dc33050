package status

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultProbeTimeout bounds each individual probe. A slow target
	// never delays or cancels its siblings.
	DefaultProbeTimeout = 5 * time.Second

	defaultUserAgent = "ClawKit-Status-Monitor/1.0"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProberConfig holds configuration for the Prober.
type ProberConfig struct {
	// HTTPClient is the HTTP client to use. If nil, a plain client is
	// created. Probes are deliberately single-shot: a retrying client
	// would misreport liveness.
	HTTPClient HTTPDoer

	// Timeout for individual probes (default: DefaultProbeTimeout).
	Timeout time.Duration

	// UserAgent sent with every probe.
	UserAgent string
}

// Prober issues a single liveness check against one target.
type Prober struct {
	httpClient HTTPDoer
	timeout    time.Duration
	userAgent  string
}

// NewProber creates a new Prober.
func NewProber(cfg ProberConfig) *Prober {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultProbeTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Prober{
		httpClient: httpClient,
		timeout:    timeout,
		userAgent:  userAgent,
	}
}

// Probe checks a single target and classifies the outcome:
//
//   - successful status code       -> operational
//   - HTTP 403                     -> degraded (rate-limit heuristic)
//   - any other non-success status -> down
//   - timeout                      -> degraded (transient slowness)
//   - any other transport failure  -> down, latency 0
//
// Probe never returns an error; every failure mode is absorbed into the
// result so one target cannot fail the aggregation.
func (p *Prober) Probe(ctx context.Context, target ProbeTarget) ProbeResult {
	result := ProbeResult{ID: target.ID, Name: target.Name}

	method := http.MethodHead
	if target.Kind == CheckKindGitHub {
		method = http.MethodGet
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, method, target.URL, http.NoBody)
	if err != nil {
		result.State = StateDown
		return result
	}
	req.Header.Set("User-Agent", p.userAgent)

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		if isTimeout(err) {
			result.State = StateDegraded
			result.LatencyMS = elapsed
		} else {
			result.State = StateDown
			result.LatencyMS = 0
		}
		return result
	}
	defer resp.Body.Close()

	result.LatencyMS = elapsed
	result.State = classify(target.Kind, resp.StatusCode)
	return result
}

// classify maps a response status code to the tri-state health value.
// 403 stays degraded for every kind: GitHub answers 403 when rate
// limited, which is throttling rather than an outage.
func classify(kind CheckKind, statusCode int) ServiceState {
	if statusCode == http.StatusForbidden {
		return StateDegraded
	}

	// HEAD existence checks tolerate redirects, GitHub API calls do not.
	upper := 300
	if kind == CheckKindHTTP {
		upper = 400
	}

	if statusCode >= 200 && statusCode < upper {
		return StateOperational
	}
	return StateDown
}

// isTimeout reports whether the probe failed because its deadline
// elapsed, as opposed to DNS, TLS, or connection errors.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
