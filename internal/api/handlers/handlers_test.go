package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdeck/dormdeck-backend/internal/adapters/memory"
	"github.com/dormdeck/dormdeck-backend/internal/api/handlers"
	"github.com/dormdeck/dormdeck-backend/internal/api/routes"
	"github.com/dormdeck/dormdeck-backend/internal/application/services"
	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
)

// newTestServer wires the full route table against in-memory storage and
// heuristic-only classification.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	providerRepo := memory.NewProviderAdapter()
	sessionRepo := memory.NewSessionAdapter()

	intents := services.NewIntentService(nil, 8, nil, 0)
	locations := services.NewLocationScorer()
	availability := services.NewAvailabilityEvaluator()
	noon := func() time.Time { return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC) }

	registry := services.NewRegistryService(providerRepo)
	ranking := services.NewRankingService(intents, locations, availability, noon)
	sessions := services.NewSessionService(sessionRepo)
	metrics := services.NewMetricsService(sessionRepo, providerRepo, locations)
	export := services.NewExportService(sessionRepo)

	router := routes.NewRouter(
		handlers.NewSearchHandler(registry, ranking, sessions),
		handlers.NewSessionHandler(sessions),
		handlers.NewProviderHandler(registry),
		handlers.NewMetricsHandler(metrics),
		handlers.NewExportHandler(export),
		nil,
	)
	return router.SetupRoutes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
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
	h.ServeHTTP(rec, req)
	return rec
}

func registerProvider(t *testing.T, h http.Handler, p map[string]any) int64 {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/providers", p)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created entities.Provider
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created.ID
}

func TestSearchEndpoint_ReturnsSessionAndResults(t *testing.T) {
	h := newTestServer(t)

	registerProvider(t, h, map[string]any{
		"name":      "Midnight Munchies",
		"category":  "Food",
		"location":  "Hall 5",
		"open_time": "09:00", "close_time": "17:00",
		"keywords": []string{"snacks"},
		"contact":  "+2348011110001",
	})

	rec := doJSON(t, h, http.MethodPost, "/api/search", map[string]string{
		"query":    "need snacks",
		"location": "Hall 5",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		SessionID int64                  `json:"session_id"`
		Kind      entities.MatchKind     `json:"kind"`
		Message   string                 `json:"message"`
		Results   []entities.RankedMatch `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, int64(1), resp.SessionID)
	assert.Equal(t, entities.MatchSmart, resp.Kind)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Midnight Munchies", resp.Results[0].Provider.Name)
	assert.True(t, resp.Results[0].IsOpen)
}

func TestSearchEndpoint_RequiresQuery(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/search", map[string]string{"query": "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActionEndpoint_RoundTrip(t *testing.T) {
	h := newTestServer(t)

	id := registerProvider(t, h, map[string]any{
		"name": "Print Hub", "category": "Stationery", "location": "Hall 3",
		"open_time": "09:00", "close_time": "17:00",
		"keywords": []string{"print"}, "contact": "+2348011110002",
	})

	search := doJSON(t, h, http.MethodPost, "/api/search", map[string]string{
		"query": "print my assignment", "location": "Hall 3",
	})
	require.Equal(t, http.StatusOK, search.Code)
	var searchResp struct {
		SessionID int64 `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(search.Body.Bytes(), &searchResp))

	rec := doJSON(t, h, http.MethodPost,
		fmt.Sprintf("/api/sessions/%d/actions", searchResp.SessionID),
		map[string]any{"kind": "contact_click", "provider_id": id})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"logged":true}`, rec.Body.String())

	// Metrics should now count one converted session.
	metricsRec := doJSON(t, h, http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, metricsRec.Code)
	var report services.MetricsReport
	require.NoError(t, json.Unmarshal(metricsRec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Conversion.Conversions)
	assert.InDelta(t, 100.0, report.Conversion.Rate, 1e-9)
}

func TestActionEndpoint_UnknownSessionLogsFalse(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/sessions/999/actions",
		map[string]any{"kind": "form_click"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"logged":false}`, rec.Body.String())
}

func TestActionEndpoint_RejectsUnknownKind(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/sessions/1/actions",
		map[string]any{"kind": "wa_click"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProviderEndpoints_ConflictAndNotFound(t *testing.T) {
	h := newTestServer(t)

	registerProvider(t, h, map[string]any{
		"name": "Sharp Cuts", "category": "Services", "location": "Hall 4",
		"contact": "+2348011110006",
	})

	dup := doJSON(t, h, http.MethodPost, "/api/providers", map[string]any{
		"name": "sharp cuts", "category": "Services", "location": "HALL 4",
		"contact": "+2348099999999",
	})
	assert.Equal(t, http.StatusConflict, dup.Code)

	missing := doJSON(t, h, http.MethodGet, "/api/providers/404", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	bad := doJSON(t, h, http.MethodGet, "/api/providers/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestExportEndpoint_ReturnsCSV(t *testing.T) {
	h := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/api/search", map[string]string{
		"query": "anything", "location": "Hall 1",
	})

	rec := doJSON(t, h, http.MethodGet, "/api/export/sessions.csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "session_id,session_ts,query"))
}

func TestMetricsEndpoint_RejectsBadWindow(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/metrics?start=yesterday", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
