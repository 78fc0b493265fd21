package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/keagan/tagcannon/internal/analysis"
)

const (
	maxTranscriptBytes = 1 << 20
	maxBodyBytes       = 2 << 20
)

type analyzeRequest struct {
	OnScreenTexts []string `json:"on_screen_texts" validate:"max=500,dive,max=2000"`
	Transcript    string   `json:"transcript" validate:"max=1048576"`
	Language      string   `json:"language" validate:"omitempty,max=16"`
}

type analyzeResponse struct {
	analysis.AnalysisResult
	Outcome analysis.Outcome `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req analyzeRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		case errors.Is(err, io.EOF):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "empty body"})
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		}
		return
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unexpected trailing data"})
		return
	}

	if len(req.Transcript) > maxTranscriptBytes {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "transcript must be at most 1 MiB", Field: "transcript"})
		return
	}
	if field, msg, ok := validatorService().check(req); !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Field: field})
		return
	}

	start := time.Now()
	result := analysis.Analyze(analysis.RawSignals{
		OnScreenTexts:  req.OnScreenTexts,
		TranscriptText: req.Transcript,
		Language:       req.Language,
	})
	s.metrics.ObserveAnalysis(result.Outcome, time.Since(start))

	writeJSON(w, http.StatusOK, analyzeResponse{
		AnalysisResult: result,
		Outcome:        result.Outcome,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
