package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/spacesedan/postlens/internal/analysis"
	"github.com/spacesedan/postlens/internal/db"
	"github.com/spacesedan/postlens/internal/models"
	"github.com/spacesedan/postlens/internal/suggestions"
)

const (
	MSG_NO_TEXT    = "No text provided"
	MSG_EMPTY_TEXT = "Empty text provided"
	MSG_TOO_LARGE  = "File too large. Maximum size is 16MB."
)

type AnalysisHandler struct {
	service      *analysis.Service
	maxBodyBytes int64
}

func NewAnalysisHandler(service *analysis.Service, maxBodyBytes int64) *AnalysisHandler {
	return &AnalysisHandler{service: service, maxBodyBytes: maxBodyBytes}
}

type analyzeRequest struct {
	Text   *string `json:"text"`
	Format string  `json:"format"`
}

// Analyze handles POST /analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBodyBytes {
		ErrorResponse(w, http.StatusRequestEntityTooLarge, MSG_TOO_LARGE)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer r.Body.Close()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(w, http.StatusRequestEntityTooLarge, MSG_TOO_LARGE)
			return
		}
		ErrorResponse(w, http.StatusBadRequest, MSG_NO_TEXT)
		return
	}
	if req.Text == nil {
		ErrorResponse(w, http.StatusBadRequest, MSG_NO_TEXT)
		return
	}

	record, err := h.service.Analyze(r.Context(), models.AnalysisRequest{
		Source: models.SOURCE_API,
		Text:   *req.Text,
		Format: req.Format,
	})

	var verr *analysis.ValidationError
	var serr *analysis.StoreError
	switch {
	case err == nil:
		JSONResponse(w, http.StatusOK, models.AnalyzeResponse{Success: true, ID: record.ID, Analysis: &record.Analysis})
	case errors.As(err, &serr):
		// Analysis is valid even though history is unavailable; no id to hand out.
		JSONResponse(w, http.StatusOK, models.AnalyzeResponse{Success: true, Analysis: &record.Analysis})
	case errors.As(err, &verr):
		if verr.Reason == analysis.REASON_EMPTY {
			ErrorResponse(w, http.StatusBadRequest, MSG_EMPTY_TEXT)
			return
		}
		ErrorResponse(w, http.StatusBadRequest, "Invalid text: "+verr.Reason)
	default:
		slog.Error("[Server] Analysis error", slog.String("error", err.Error()))
		ErrorResponse(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
	}
}

// GetAnalysis handles GET /analyses/{id}.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, record)
}

// ListAnalyses handles GET /analyses?limit=n, newest first.
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := db.DEFAULT_RECENT_LIMIT
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, db.MAX_RECENT_LIMIT)
	}

	records, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		h.storeError(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, records)
}

func (h *AnalysisHandler) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		ErrorResponse(w, http.StatusNotFound, "Analysis not found")
	case errors.Is(err, db.ErrNoStore):
		ErrorResponse(w, http.StatusNotImplemented, "Analysis history is not enabled")
	default:
		slog.Error("[Server] Store error", slog.String("error", err.Error()))
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

type ruleInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListRules handles GET /rules.
func ListRules(w http.ResponseWriter, r *http.Request) {
	rules := suggestions.Rules()
	out := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		out = append(out, ruleInfo{ID: rule.ID, Name: rule.Name})
	}
	JSONResponse(w, http.StatusOK, out)
}
