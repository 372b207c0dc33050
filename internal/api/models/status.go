package models

// ServiceStatus is the per-target result of one monitoring probe.
type ServiceStatus struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Latency int64  `json:"latency"`
}

// StatusMeta carries aggregation metadata for a status report.
type StatusMeta struct {
	TotalLatency int64 `json:"totalLatency"`
	Cached       bool  `json:"cached"`
}

// StatusReport is the response body for GET /v1/status.
type StatusReport struct {
	UpdatedAt Timestamp       `json:"updatedAt"`
	Services  []ServiceStatus `json:"services"`
	Meta      StatusMeta      `json:"meta"`
}
