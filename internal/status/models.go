// Package status probes a fixed set of external endpoints and aggregates
// their liveness into a tri-state report.
package status

import "time"

// CheckKind determines how a target is probed.
type CheckKind string

const (
	// CheckKindGitHub issues a GET against a GitHub API URL.
	CheckKindGitHub CheckKind = "github"

	// CheckKindHTTP issues a HEAD existence check, no body needed.
	CheckKindHTTP CheckKind = "http"
)

// ProbeTarget is one monitored endpoint. The target table is fixed at
// startup and never mutated.
type ProbeTarget struct {
	ID   string
	Name string
	URL  string
	Kind CheckKind
}

// ServiceState is the tri-state health classification of a target.
type ServiceState string

const (
	StateOperational ServiceState = "operational"
	StateDegraded    ServiceState = "degraded"
	StateDown        ServiceState = "down"
)

// ProbeResult is the outcome of a single probe, created fresh per
// invocation and discarded after the report is composed.
type ProbeResult struct {
	ID        string
	Name      string
	State     ServiceState
	LatencyMS int64
}

// Report is one aggregated status snapshot.
type Report struct {
	UpdatedAt      time.Time
	Services       []ProbeResult
	TotalLatencyMS int64
	Cached         bool
}
