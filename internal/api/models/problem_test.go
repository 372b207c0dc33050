package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getclawkit/clawkit/internal/api/models"
)

func TestProblem_NewProblem(t *testing.T) {
	p := models.NewProblem(
		models.ProblemTypeValidation,
		"Validation error",
		http.StatusBadRequest,
		"req_test123",
	)

	assert.Equal(t, models.ProblemTypeValidation, p.Type)
	assert.Equal(t, "Validation error", p.Title)
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, "req_test123", p.TraceID)
	assert.Empty(t, p.Detail)
	assert.Empty(t, p.Instance)
}

func TestProblem_Write(t *testing.T) {
	p := models.NewBadRequest("req_test123", "skills array is required")
	p.Instance = "/v1/skills/sync"

	w := httptest.NewRecorder()
	p.Write(w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_test123", w.Header().Get("X-Request-Id"))

	var result models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, result.Type)
	assert.Equal(t, "Validation error", result.Title)
	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Equal(t, "skills array is required", result.Detail)
	assert.Equal(t, "/v1/skills/sync", result.Instance)
	assert.Equal(t, "req_test123", result.TraceID)
}

func TestProblemConstructors(t *testing.T) {
	tests := []struct {
		name    string
		problem *models.Problem
		ptype   string
		title   string
		status  int
	}{
		{
			"bad request",
			models.NewBadRequest("req_123", "invalid data"),
			models.ProblemTypeValidation, "Validation error", http.StatusBadRequest,
		},
		{
			"unauthorized",
			models.NewUnauthorized("req_123", "invalid bearer token"),
			models.ProblemTypeUnauthorized, "Unauthorized", http.StatusUnauthorized,
		},
		{
			"not found",
			models.NewNotFound("req_123", "skill not found"),
			models.ProblemTypeNotFound, "Not found", http.StatusNotFound,
		},
		{
			"too many requests",
			models.NewTooManyRequests("req_123", "rate limit exceeded"),
			models.ProblemTypeTooManyRequests, "Too many requests", http.StatusTooManyRequests,
		},
		{
			"internal error",
			models.NewInternalError("req_123", "database error"),
			models.ProblemTypeInternal, "Internal server error", http.StatusInternalServerError,
		},
		{
			"service unavailable",
			models.NewServiceUnavailable("req_123", "database is unreachable"),
			models.ProblemTypeUnavailable, "Service unavailable", http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ptype, tt.problem.Type)
			assert.Equal(t, tt.title, tt.problem.Title)
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, "req_123", tt.problem.TraceID)
			assert.NotEmpty(t, tt.problem.Detail)
		})
	}
}
