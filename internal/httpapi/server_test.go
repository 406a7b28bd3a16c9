package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicXVII/analisiPortafoglio/internal/config"
	"github.com/NicXVII/analisiPortafoglio/internal/data"
	"github.com/NicXVII/analisiPortafoglio/internal/domain"
	"github.com/NicXVII/analisiPortafoglio/internal/engine"
	"github.com/NicXVII/analisiPortafoglio/internal/gates"
	"github.com/NicXVII/analisiPortafoglio/internal/override"
	"github.com/NicXVII/analisiPortafoglio/internal/verdict"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := override.NewFileStore(filepath.Join(t.TempDir(), "overrides.jsonl"))
	require.NoError(t, err)
	return NewServer(engine.New(config.Default(), &data.StaticProvider{}, store))
}

func testInputs() data.RunInputs {
	return data.RunInputs{
		Snapshot: domain.PortfolioSnapshot{
			RunID:  "http-run",
			Intent: domain.IntentGrowth,
			Holdings: []domain.Holding{
				{Ticker: "VWCE", Weight: 0.7},
				{Ticker: "AGGH", Weight: 0.3},
			},
		},
		Quality: domain.DataQualityReport{
			MissingRatio: 0.01, ValidPairs: 1, TotalPairs: 1,
			RollingCorrStdDev: 0.04,
			HistoryDays:       map[string]int{"VWCE": 2000, "AGGH": 1900},
		},
		Beta:            0.85,
		BetaWindowYears: 6.0,
		Benchmark: gates.BenchmarkInputs{
			BenchmarkName:     "VT",
			DefensiveFraction: floatPtr(0.02),
			HasSectorTilts:    boolPtr(false),
		},
	}
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestEvaluateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv, "/v1/evaluate", testInputs())
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome verdict.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, domain.VerdictCoherentIntentMatch, outcome.Verdict.Type)
	assert.Nil(t, outcome.Block)
}

func TestEvaluateEndpointRejectsBadInputs(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bad := testInputs()
	bad.Snapshot.Holdings = nil
	rec = postJSON(t, srv, "/v1/evaluate", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOverrideEndpointAndHistory(t *testing.T) {
	srv := newTestServer(t)

	inputs := testInputs()
	inputs.Quality.MissingRatio = 0.30
	rec := postJSON(t, srv, "/v1/evaluate", inputs)
	require.Equal(t, http.StatusOK, rec.Code)

	var blocked verdict.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blocked))
	require.True(t, blocked.Blocked())

	rec = postJSON(t, srv, "/v1/override", overrideRequest{
		Verdict: blocked.Verdict,
		Request: override.Request{
			VerdictType:   blocked.Verdict.Type,
			Authorizer:    "analyst.rossi",
			Justification: "Acknowledged vendor data gap after manual reconciliation.",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var marked verdict.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &marked))
	assert.True(t, marked.Verdict.OverrideApplied)

	req := httptest.NewRequest(http.MethodGet, "/v1/overrides?authorizer=analyst.rossi", nil)
	histRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(histRec, req)
	require.Equal(t, http.StatusOK, histRec.Code)

	var records []domain.OverrideRecord
	require.NoError(t, json.Unmarshal(histRec.Body.Bytes(), &records))
	assert.Len(t, records, 1)
}

func TestOverrideEndpointRejectsInvalidRequest(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv, "/v1/override", overrideRequest{
		Verdict: domain.FinalVerdict{Type: domain.VerdictCoherentIntentMatch},
		Request: override.Request{
			VerdictType:   domain.VerdictCoherentIntentMatch,
			Authorizer:    "analyst.rossi",
			Justification: "This verdict does not need an override at all.",
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
