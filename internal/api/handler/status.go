// Package handler provides HTTP handlers for the ClawKit API.
package handler

import (
	"net/http"

	"github.com/getclawkit/clawkit/internal/api/models"
	"github.com/getclawkit/clawkit/internal/api/response"
	"github.com/getclawkit/clawkit/internal/status"
)

// Status responses may be cached by downstream infrastructure for a
// minute, with a half-minute revalidation grace period.
const (
	statusCacheMaxAge               = 60
	statusCacheStaleWhileRevalidate = 30
)

// StatusHandler handles the public status endpoint.
type StatusHandler struct {
	service *status.Service
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(service *status.Service) *StatusHandler {
	return &StatusHandler{service: service}
}

// GetStatus handles GET /v1/status - aggregated infrastructure health.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	report := h.service.Report(r.Context())

	services := make([]models.ServiceStatus, len(report.Services))
	for i, svc := range report.Services {
		services[i] = models.ServiceStatus{
			ID:      svc.ID,
			Name:    svc.Name,
			Status:  string(svc.State),
			Latency: svc.LatencyMS,
		}
	}

	body := models.StatusReport{
		UpdatedAt: models.Timestamp(report.UpdatedAt),
		Services:  services,
		Meta: models.StatusMeta{
			TotalLatency: report.TotalLatencyMS,
			Cached:       report.Cached,
		},
	}

	response.CachedJSON(w, r, statusCacheMaxAge, statusCacheStaleWhileRevalidate, body)
}
