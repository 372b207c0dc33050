package models

import "encoding/json"

// SyncRequest is the request body for POST /v1/skills/sync.
// Skills is kept raw so malformed entries can be reported per-record
// instead of failing the whole batch at decode time.
type SyncRequest struct {
	Skills json.RawMessage `json:"skills"`
}

// SyncResponse is the response body for POST /v1/skills/sync.
// Errors is present only when at least one record failed, and is
// truncated to the first 20 entries.
type SyncResponse struct {
	OK      bool     `json:"ok"`
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
