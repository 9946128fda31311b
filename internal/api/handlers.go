// Tradeguard - Trade Tariff Protection Measure Evaluation
// Copyright 2026 Tradeguard Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/tradeguard/tradeguard

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tradeguard/tradeguard/internal/logging"
	"github.com/tradeguard/tradeguard/internal/recommendation"
)

const maxRequestBody = 1 << 20

// evaluateRequest is the POST /api/v1/evaluations body.
type evaluateRequest struct {
	DomesticCode string `json:"domestic_code"`
	ProductName  string `json:"product_name"`
	UserID       string `json:"user_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.DomesticCode = strings.TrimSpace(req.DomesticCode)
	if req.DomesticCode == "" {
		writeError(w, http.StatusBadRequest, "domestic_code is required")
		return
	}

	rec, err := s.evaluator.Evaluate(r.Context(), recommendation.Request{
		DomesticCode: req.DomesticCode,
		ProductName:  req.ProductName,
		UserID:       req.UserID,
	})
	if err != nil {
		// The recommendation may still have been persisted in a
		// FAILED state; return it when available so the client can
		// follow up by request ID.
		if rec != nil {
			writeJSON(w, http.StatusInternalServerError, rec)
			return
		}
		logging.Error().Err(err).Str("domestic_code", req.DomesticCode).
			Msg("evaluation request failed")
		writeError(w, http.StatusInternalServerError, "evaluation failed")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	rec, err := s.evaluator.Get(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, recommendation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "recommendation not found")
			return
		}
		logging.Error().Err(err).Str("request_id", requestID).
			Msg("recommendation lookup failed")
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.lister == nil {
		writeError(w, http.StatusNotImplemented, "listing is not supported by the configured store")
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	recs, err := s.lister.ListByUser(r.Context(), userID)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).
			Msg("recommendation listing failed")
		writeError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	if recs == nil {
		recs = []*recommendation.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("could not encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
