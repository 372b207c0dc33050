package status_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getclawkit/clawkit/internal/status"
)

func testTargets(url string) []status.ProbeTarget {
	return []status.ProbeTarget{
		{ID: "core", Name: "Core", URL: url, Kind: status.CheckKindGitHub},
		{ID: "registry", Name: "Registry", URL: url, Kind: status.CheckKindHTTP},
		{ID: "community", Name: "Community", URL: url, Kind: status.CheckKindHTTP},
	}
}

func TestService_ReportIncludesEveryTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := status.NewService(status.ServiceConfig{
		Targets:  testTargets(server.URL),
		Logger:   zerolog.Nop(),
		CacheTTL: -1,
	})

	report := service.Report(context.Background())

	require.Len(t, report.Services, 3)
	assert.False(t, report.Cached)
	assert.False(t, report.UpdatedAt.IsZero())

	ids := map[string]bool{}
	for _, svc := range report.Services {
		ids[svc.ID] = true
		assert.Equal(t, status.StateOperational, svc.State)
	}
	assert.Len(t, ids, 3)
}

func TestService_OneFailureNeverSuppressesOthers(t *testing.T) {
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer okServer.Close()

	service := status.NewService(status.ServiceConfig{
		Targets: []status.ProbeTarget{
			{ID: "ok", URL: okServer.URL, Kind: status.CheckKindHTTP},
			{ID: "gone", URL: "http://127.0.0.1:1", Kind: status.CheckKindHTTP},
		},
		Logger:   zerolog.Nop(),
		CacheTTL: -1,
	})

	report := service.Report(context.Background())

	require.Len(t, report.Services, 2)
	byID := map[string]status.ProbeResult{}
	for _, svc := range report.Services {
		byID[svc.ID] = svc
	}
	assert.Equal(t, status.StateOperational, byID["ok"].State)
	assert.Equal(t, status.StateDown, byID["gone"].State)
	assert.Equal(t, int64(0), byID["gone"].LatencyMS)
}

func TestService_CachesWithinTTL(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := status.NewService(status.ServiceConfig{
		Targets: []status.ProbeTarget{
			{ID: "t", URL: server.URL, Kind: status.CheckKindHTTP},
		},
		Logger:   zerolog.Nop(),
		CacheTTL: time.Minute,
	})

	first := service.Report(context.Background())
	second := service.Report(context.Background())

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, int64(1), hits.Load())
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	assert.Equal(t, first.Services, second.Services)
}

func TestService_InvalidateCacheForcesFreshProbe(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := status.NewService(status.ServiceConfig{
		Targets: []status.ProbeTarget{
			{ID: "t", URL: server.URL, Kind: status.CheckKindHTTP},
		},
		Logger:   zerolog.Nop(),
		CacheTTL: time.Minute,
	})

	service.Report(context.Background())
	service.InvalidateCache()
	report := service.Report(context.Background())

	assert.False(t, report.Cached)
	assert.Equal(t, int64(2), hits.Load())
}

func TestService_NegativeTTLDisablesCaching(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := status.NewService(status.ServiceConfig{
		Targets: []status.ProbeTarget{
			{ID: "t", URL: server.URL, Kind: status.CheckKindHTTP},
		},
		Logger:   zerolog.Nop(),
		CacheTTL: -1,
	})

	service.Report(context.Background())
	service.Report(context.Background())

	assert.Equal(t, int64(2), hits.Load())
}
