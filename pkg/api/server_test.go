package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dark-Vol/llm-attack-simulation/pkg/events"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/generator"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/network"
	"github.com/Dark-Vol/llm-attack-simulation/pkg/simulation"
)

func newTestServer(t *testing.T) (*Server, *simulation.Registry) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	regCfg := simulation.DefaultRegistryConfig()
	regCfg.StageDelay = time.Millisecond
	registry := simulation.NewRegistry(regCfg, nil, events.NewMemorySink(), logger)

	netSim := network.NewSimulator(nil, logger)
	provider := generator.NewTemplateProvider(logger)
	recent := events.NewMemorySink()

	server := NewServer(ServerConfig{Port: "0"}, registry, netSim, provider, recent, nil, logger)
	return server, registry
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doJSON(t, server.Router(), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	server, registry := newTestServer(t)

	rec := doJSON(t, server.Router(), http.MethodPost, "/api/campaigns", map[string]any{
		"attack_type": "phishing",
		"target":      "corp",
		"defenses":    []string{"mfa"},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var started struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	require.NotEmpty(t, started.ID)

	registry.Wait()

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/campaigns/"+started.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap struct {
		Status     string `json:"status"`
		EventCount int    `json:"event_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "completed", snap.Status)
	assert.Greater(t, snap.EventCount, 0)

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/campaigns/"+started.ID+"/events", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCampaignValidationAndNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	// attack_type is required
	rec := doJSON(t, server.Router(), http.MethodPost, "/api/campaigns", map[string]any{
		"target": "corp",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/campaigns/sim_missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, server.Router(), http.MethodPost, "/api/campaigns/sim_missing/stop", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNetworkEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	// Attacking before creating a network is a precondition failure
	rec := doJSON(t, server.Router(), http.MethodPost, "/api/network/attack", map[string]any{
		"attack_type": "exploit",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server.Router(), http.MethodPost, "/api/network", map[string]any{"nodes": 5})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/network/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalNodes       int     `json:"total_nodes"`
		TotalConnections int     `json:"total_connections"`
		NetworkIntegrity float64 `json:"network_integrity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 5, stats.TotalNodes)
	assert.GreaterOrEqual(t, stats.TotalConnections, 4)
	assert.LessOrEqual(t, stats.NetworkIntegrity, 1.0)

	rec = doJSON(t, server.Router(), http.MethodPost, "/api/network/attack", map[string]any{
		"attack_type": "exploit",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome struct {
		TargetID    string  `json:"target_node"`
		Probability float64 `json:"probability"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.NotEmpty(t, outcome.TargetID)
	assert.GreaterOrEqual(t, outcome.Probability, 0.05)
	assert.LessOrEqual(t, outcome.Probability, 0.95)

	rec = doJSON(t, server.Router(), http.MethodPost, "/api/network/reset", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/network/stats", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalNodes)
}

func TestNetworkAttackUnknownTarget(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server.Router(), http.MethodPost, "/api/network", map[string]any{"nodes": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server.Router(), http.MethodPost, "/api/network/attack", map[string]any{
		"attack_type": "exploit",
		"target_id":   "server_99",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPhishingPreview(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server.Router(), http.MethodPost, "/api/phishing/preview", map[string]any{
		"prompt": "Verify your account",
		"target": "employee",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Email, "Verify your account")
}

func TestSystemStatsEndpoint(t *testing.T) {
	server, registry := newTestServer(t)

	rec := doJSON(t, server.Router(), http.MethodPost, "/api/campaigns", map[string]any{
		"attack_type": "phishing",
		"target":      "corp",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	registry.Wait()

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalCampaigns int `json:"total_campaigns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalCampaigns)
}
