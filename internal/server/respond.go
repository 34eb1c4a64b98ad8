package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/money-gurus/guru-server/internal/completion"
	"github.com/money-gurus/guru-server/internal/store"
)

// errorEnvelope is the uniform failure body across all endpoints.
type errorEnvelope struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorEnvelope{Error: msg})
}

// respondAIError applies the canonical completion-failure-to-HTTP
// mapping: callers can always tell AI-unavailable (503) apart from a
// model that answered garbage (502), a timed-out chain (504), and hard
// server errors (500). Applied uniformly across the three AI endpoints.
func respondAIError(w http.ResponseWriter, err error) {
	var ce *completion.Error
	if !errors.As(err, &ce) {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	switch ce.Kind {
	case completion.KindDecode:
		respondError(w, http.StatusBadGateway, "AI response could not be decoded: "+ce.Summary)
	case completion.KindDeadline:
		respondError(w, http.StatusGatewayTimeout, "AI request timed out")
	default:
		respondError(w, http.StatusServiceUnavailable, "All AI models failed. Last: "+ce.Summary)
	}
}

func respondStoreError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	zap.L().Error("server: store error", zap.String("op", op), zap.Error(err))
	respondError(w, http.StatusInternalServerError, "storage error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
