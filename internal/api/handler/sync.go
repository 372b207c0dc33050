package handler

import (
	"encoding/json"
	"net/http"

	"github.com/getclawkit/clawkit/internal/api/models"
	"github.com/getclawkit/clawkit/internal/api/response"
	"github.com/getclawkit/clawkit/internal/skills"
)

// maxSyncErrors caps how many per-record errors a sync response carries.
// The full list is logged server-side.
const maxSyncErrors = 20

// SyncHandler handles the authenticated bulk-sync endpoint.
type SyncHandler struct {
	ingestor *skills.Ingestor
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(ingestor *skills.Ingestor) *SyncHandler {
	return &SyncHandler{ingestor: ingestor}
}

// SyncSkills handles POST /v1/skills/sync - idempotent bulk catalog
// replace. The request body must carry a non-empty skills array; each
// record is upserted independently and failures are reported per record
// rather than aborting the batch.
func (h *SyncHandler) SyncSkills(w http.ResponseWriter, r *http.Request) {
	var req models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body")
		return
	}

	if len(req.Skills) == 0 {
		response.BadRequest(w, r, "skills array is required")
		return
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal(req.Skills, &rawRecords); err != nil {
		response.BadRequest(w, r, "skills must be an array of objects")
		return
	}
	if len(rawRecords) == 0 {
		response.BadRequest(w, r, "skills array is empty")
		return
	}

	// Records are independent: an element that is not an object has no
	// usable identity and is counted as skipped, not a batch failure.
	records := make([]map[string]any, len(rawRecords))
	for i, raw := range rawRecords {
		var record map[string]any
		if err := json.Unmarshal(raw, &record); err != nil {
			continue
		}
		records[i] = record
	}

	summary := h.ingestor.SyncBatch(r.Context(), records)

	body := models.SyncResponse{
		OK:      true,
		Total:   summary.Total,
		Created: summary.Created,
		Updated: summary.Updated,
		Skipped: summary.Skipped,
	}
	if len(summary.Errors) > 0 {
		errs := summary.Errors
		if len(errs) > maxSyncErrors {
			errs = errs[:maxSyncErrors]
		}
		body.Errors = errs
	}

	response.JSON(w, r, http.StatusOK, body)
}
