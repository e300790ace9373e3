package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"DistressSentinel/internal/analysis"
	"DistressSentinel/internal/model"
	"DistressSentinel/internal/recorder"
	"DistressSentinel/internal/reference"
	"DistressSentinel/internal/scoring"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
	maxBodyBytes        = 1 << 20
)

type errorResponse struct {
	Error    string               `json:"error"`
	Failures []model.ModelFailure `json:"failures,omitempty"`
}

type modelInfo struct {
	ID          model.ModelID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
}

type bandInfo struct {
	Limit          *float64       `json:"limit,omitempty"`
	Inclusive      bool           `json:"inclusive,omitempty"`
	Status         model.Status   `json:"status"`
	Risk           model.RiskTier `json:"risk"`
	Color          string         `json:"color"`
	Recommendation string         `json:"recommendation,omitempty"`
}

type modelDetail struct {
	modelInfo
	ClassifiesOn string     `json:"classifies_on"`
	Bands        []bandInfo `json:"bands"`
}

type historyResponse struct {
	Symbol      string                      `json:"symbol"`
	Assessments []recorder.StoredAssessment `json:"assessments"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"sources": s.svc.Sources(),
	})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	out := make([]modelInfo, 0, len(model.AllModels))
	for _, id := range model.AllModels {
		out = append(out, modelInfo{ID: id, Name: id.DisplayName(), Description: id.Description()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleModel describes one model and its classification bands. The last
// band has no limit.
func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	id, ok := model.ParseModelID(chi.URLParam(r, "id"))
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown model: " + chi.URLParam(r, "id")})
		return
	}
	bands, _ := s.svc.Thresholds().For(id)

	out := modelDetail{
		modelInfo:    modelInfo{ID: id, Name: id.DisplayName(), Description: id.Description()},
		ClassifiesOn: "score",
	}
	if id == model.ModelZmijewski {
		out.ClassifiesOn = "probability"
	}
	for _, b := range bands.Below {
		limit := b.Limit
		out.Bands = append(out.Bands, newBandInfo(b, &limit))
	}
	out.Bands = append(out.Bands, newBandInfo(bands.Above, nil))
	s.writeJSON(w, http.StatusOK, out)
}

func newBandInfo(b scoring.Band, limit *float64) bandInfo {
	return bandInfo{
		Limit:          limit,
		Inclusive:      b.Inclusive,
		Status:         b.Status,
		Risk:           b.Risk,
		Color:          b.Risk.Color(),
		Recommendation: b.Recommendation,
	}
}

func (s *Server) handleBankrupt(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, reference.Bankrupt())
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	source := strings.ToLower(r.URL.Query().Get("source"))

	report, err := s.svc.AnalyzeSymbol(r.Context(), symbol, source)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleManualAssessment(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var entry map[string]any
	if err := dec.Decode(&entry); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	report, err := s.svc.AnalyzeManual(r.Context(), entry)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	rows, err := s.svc.History(symbol, limit)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("load history")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "history unavailable"})
		return
	}
	if rows == nil {
		rows = []recorder.StoredAssessment{}
	}
	s.writeJSON(w, http.StatusOK, historyResponse{Symbol: symbol, Assessments: rows})
}

// writeAnalysisError maps analysis errors to HTTP statuses.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	var (
		du  *model.DataUnavailableError
		agg *model.AggregateError
		ve  *model.ValidationError
	)
	switch {
	case errors.Is(err, analysis.ErrUnknownSource):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &du):
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: du.Error()})
	case errors.As(err, &agg):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: agg.Error(), Failures: agg.Failures})
	case errors.As(err, &ve):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Error()})
	default:
		s.log.Error().Err(err).Msg("analysis failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}
