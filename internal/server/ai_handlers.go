package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/money-gurus/guru-server/internal/model"
)

func (s *Server) aiContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

func (s *Server) aiReady(w http.ResponseWriter) bool {
	if !s.aiConfigured {
		respondError(w, http.StatusServiceUnavailable, "AI service not configured")
		return false
	}
	return true
}

type scoreRequest struct {
	Income     float64 `json:"income"`
	Recurring  float64 `json:"recurring"`
	Leisure    float64 `json:"leisure"`
	Savings    float64 `json:"savings"`
	Emergency  float64 `json:"emergency"`
	Investment float64 `json:"investment"`
}

// handleScore evaluates one month of figures into a Guru Score plus six
// advice lines.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !s.aiReady(w) {
		return
	}

	ctx, cancel := s.aiContext(r)
	defer cancel()

	payload, err := s.advisor.EvaluateScore(ctx, model.Portfolio{
		Income:     req.Income,
		Recurring:  req.Recurring,
		Leisure:    req.Leisure,
		Savings:    req.Savings,
		Emergency:  req.Emergency,
		Investment: req.Investment,
	})
	if err != nil {
		respondAIError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payload)
}

type chatRequest struct {
	Message   string          `json:"message"`
	Portfolio model.Portfolio `json:"portfolio"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if !s.aiReady(w) {
		return
	}

	ctx, cancel := s.aiContext(r)
	defer cancel()

	reply, err := s.advisor.Chat(ctx, req.Message, req.Portfolio)
	if err != nil {
		respondAIError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type goalPlanRequest struct {
	Goal      string          `json:"goal"`
	Months    int             `json:"months"`
	Portfolio model.Portfolio `json:"portfolio"`
}

func (s *Server) handleGoalPlan(w http.ResponseWriter, r *http.Request) {
	var req goalPlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Goal) == "" || req.Months <= 0 {
		respondError(w, http.StatusBadRequest, "goal and a positive months value are required")
		return
	}
	if !s.aiReady(w) {
		return
	}

	ctx, cancel := s.aiContext(r)
	defer cancel()

	plan, err := s.advisor.PlanGoal(ctx, req.Goal, req.Months, req.Portfolio)
	if err != nil {
		respondAIError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, plan)
}
