package status

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCacheTTL is how long an aggregated report may be served without
// re-probing. Staleness inside this window is acceptable by design: this
// is a sampled liveness check, not a real-time guarantee.
const DefaultCacheTTL = 60 * time.Second

// ServiceConfig holds configuration for the status service.
type ServiceConfig struct {
	// Targets is the fixed table of monitored endpoints.
	// If empty, DefaultTargets is used.
	Targets []ProbeTarget

	// Prober performs individual checks. If nil, a default prober is created.
	Prober *Prober

	Logger zerolog.Logger

	// CacheTTL for aggregated reports (default: DefaultCacheTTL).
	// Negative disables caching.
	CacheTTL time.Duration
}

// Service aggregates probe results into status reports.
type Service struct {
	targets  []ProbeTarget
	prober   *Prober
	logger   zerolog.Logger
	cacheTTL time.Duration

	mu       sync.Mutex
	cached   *Report
	cachedAt time.Time
}

// NewService creates a new status service.
func NewService(cfg ServiceConfig) *Service {
	targets := cfg.Targets
	if len(targets) == 0 {
		targets = DefaultTargets()
	}

	prober := cfg.Prober
	if prober == nil {
		prober = NewProber(ProberConfig{})
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = DefaultCacheTTL
	}

	return &Service{
		targets:  targets,
		prober:   prober,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
	}
}

// Report returns the current status report, serving a cached snapshot
// when one is fresh enough. A cached report carries Cached=true.
func (s *Service) Report(ctx context.Context) Report {
	if report, ok := s.fromCache(); ok {
		return report
	}

	report := s.aggregate(ctx)

	s.mu.Lock()
	s.cached = &report
	s.cachedAt = time.Now()
	s.mu.Unlock()

	return report
}

// aggregate probes every target concurrently and waits for all of them
// to settle. One slow or failing probe never suppresses the others'
// results; total latency is bounded by the slowest probe, not the sum.
func (s *Service) aggregate(ctx context.Context) Report {
	start := time.Now()

	results := make([]ProbeResult, len(s.targets))

	var wg sync.WaitGroup
	for i, target := range s.targets {
		wg.Add(1)
		go func(i int, target ProbeTarget) {
			defer wg.Done()
			results[i] = s.prober.Probe(ctx, target)
		}(i, target)
	}
	wg.Wait()

	for _, r := range results {
		if r.State != StateOperational {
			s.logger.Warn().
				Str("target", r.ID).
				Str("state", string(r.State)).
				Int64("latency_ms", r.LatencyMS).
				Msg("probe target not operational")
		}
	}

	return Report{
		UpdatedAt:      time.Now(),
		Services:       results,
		TotalLatencyMS: time.Since(start).Milliseconds(),
		Cached:         false,
	}
}

// fromCache returns a copy of the cached report if it is still fresh.
func (s *Service) fromCache() (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil || s.cacheTTL < 0 || time.Since(s.cachedAt) >= s.cacheTTL {
		return Report{}, false
	}

	report := *s.cached
	report.Services = append([]ProbeResult(nil), s.cached.Services...)
	report.Cached = true
	return report, true
}

// InvalidateCache clears the cached report, forcing a fresh aggregation
// on the next call.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.cachedAt = time.Time{}
}
