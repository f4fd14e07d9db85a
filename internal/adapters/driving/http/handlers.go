package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/ragcore/internal/core/domain"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatResponse is the answer returned to the caller
type ChatResponse struct {
	Answer  string   `json:"answer"`
	Context []string `json:"context"`
}

// RefreshResponse reports how many documents a refresh processed
type RefreshResponse struct {
	Message   string `json:"message"`
	Documents int    `json:"documents"`
}

// handleHealth godoc
// Returns process liveness; does not touch collaborators.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports whether the query path can answer: the readiness value
// must hold every collaborator, and the data source must respond if wired
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.handles.Ready(); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "data source unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// handleChat answers a question. Once readiness passes this always returns
// 200 with some answer text; degraded retrieval or generation is invisible
// at the status-code level.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exchange, err := s.chatService.Chat(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotReady):
			writeError(w, http.StatusServiceUnavailable, "service not fully initialized")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "question is required")
		default:
			writeError(w, http.StatusInternalServerError, "chat failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:  exchange.Answer,
		Context: exchange.Context,
	})
}

// handleRefresh rebuilds the searchable corpus from the data source
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	count, err := s.ingestService.Refresh(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotReady):
			writeError(w, http.StatusServiceUnavailable, "service not fully initialized")
		case errors.Is(err, domain.ErrEmptyDataset):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, RefreshResponse{
		Message:   "successfully refreshed embeddings",
		Documents: count,
	})
}

// handleModelStatus reports which required models are installed
func (s *Server) handleModelStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.modelAdmin.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleModelPull installs the required models
func (s *Server) handleModelPull(w http.ResponseWriter, r *http.Request) {
	results := s.modelAdmin.PullRequired(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
