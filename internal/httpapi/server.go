// Package httpapi exposes the engine over a small JSON surface: evaluation
// runs, override submission and the audit trail, plus Prometheus metrics.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/NicXVII/analisiPortafoglio/internal/data"
	"github.com/NicXVII/analisiPortafoglio/internal/domain"
	"github.com/NicXVII/analisiPortafoglio/internal/engine"
	"github.com/NicXVII/analisiPortafoglio/internal/override"
	"github.com/NicXVII/analisiPortafoglio/internal/verdict"
)

// Server routes HTTP requests to the engine.
type Server struct {
	engine *engine.Engine
	router *mux.Router
}

// NewServer builds the router.
func NewServer(eng *engine.Engine) *Server {
	s := &Server{engine: eng, router: mux.NewRouter()}

	s.router.HandleFunc("/v1/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/override", s.handleOverride).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/overrides", s.handleOverrideHistory).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return s
}

// Handler returns the root handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Info().Str("addr", addr).Msg("http api listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var inputs data.RunInputs
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeError(w, http.StatusBadRequest, "malformed run inputs: "+err.Error())
		return
	}

	outcome, err := s.engine.EvaluateInputs(r.Context(), inputs)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

type overrideRequest struct {
	Verdict domain.FinalVerdict `json:"verdict"`
	Request override.Request    `json:"request"`
}

func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed override request: "+err.Error())
		return
	}

	marked, err := s.engine.Override(r.Context(), req.Verdict, req.Request)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, verdict.Outcome{Verdict: marked})
}

func (s *Server) handleOverrideHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.engine.OverrideHistory(r.Context(), r.URL.Query().Get("authorizer"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []domain.OverrideRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("writing http response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
