package assessment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/triage/pkg/common/httpclient"
	"github.com/synaptica-ai/triage/pkg/common/logger"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/analysis", h.handleAnalyze).Methods(http.MethodPost)
	router.HandleFunc("/analysis", h.handleAnalyses).Methods(http.MethodGet)
	router.HandleFunc("/analysis/status", h.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/analysis/summary", h.handleSummary).Methods(http.MethodGet)
	router.HandleFunc("/analysis/results", h.handleResults).Methods(http.MethodGet)
	router.HandleFunc("/assessment/submit", h.handleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/assessment/submissions", h.handleSubmissions).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.service.Analyze(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":  h.service.Summary(),
		"patients": analyses,
	})
}

func (h *HTTPHandler) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Analyses())
}

func (h *HTTPHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to load analysis state")
		writeJSON(w, http.StatusInternalServerError, errorBody("analysis state unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *HTTPHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Summary())
}

func (h *HTTPHandler) handleResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Results())
}

func (h *HTTPHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Submit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := h.service.Submissions(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// writeError reports a failure as a single human-readable message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, ErrNotAnalyzed):
		status = http.StatusConflict
	case errors.Is(err, ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, ErrHistoryDisabled):
		status = http.StatusNotFound
	default:
		if _, ok := httpclient.KindOf(err); !ok {
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("failed to write response")
	}
}
