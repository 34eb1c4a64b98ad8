package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/money-gurus/guru-server/internal/model"
	"github.com/money-gurus/guru-server/internal/store"
)

type newMonthRequest struct {
	UID        string   `json:"uid"`
	Income     float64  `json:"income"`
	Recurring  float64  `json:"recurring"`
	Leisure    float64  `json:"leisure"`
	Savings    float64  `json:"savings"`
	Emergency  float64  `json:"emergency"`
	Investment float64  `json:"investment"`
	Score      int      `json:"score"`
	Advice     []string `json:"advice"`
}

func (s *Server) handleNewMonth(w http.ResponseWriter, r *http.Request) {
	var req newMonthRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UID == "" {
		respondError(w, http.StatusBadRequest, "uid is required")
		return
	}

	// IDs keep the month label readable while staying unique across
	// repeat submissions in the same month.
	now := time.Now().UTC()
	monthLabel := now.Format("2006-01")
	entry := model.MonthEntry{
		ID:         fmt.Sprintf("%s-%s", monthLabel, uuid.NewString()),
		UID:        req.UID,
		Month:      monthLabel,
		Income:     req.Income,
		Recurring:  req.Recurring,
		Leisure:    req.Leisure,
		Savings:    req.Savings,
		Emergency:  req.Emergency,
		Investment: req.Investment,
		Score:      req.Score,
		Advice:     req.Advice,
		CreatedAt:  now.Format(time.RFC3339),
	}
	if entry.Advice == nil {
		entry.Advice = []string{}
	}

	if err := s.store.SaveMonth(r.Context(), entry); err != nil {
		respondStoreError(w, err, "save month")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "monthId": entry.ID})
}

type uidRequest struct {
	UID string `json:"uid"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	var req uidRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UID == "" {
		respondError(w, http.StatusBadRequest, "uid is required")
		return
	}

	var (
		user    *model.User
		entries []model.MonthEntry
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		u, err := s.store.GetUser(ctx, req.UID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		user = u
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.store.History(ctx, req.UID)
		return err
	})
	if err := g.Wait(); err != nil {
		respondStoreError(w, err, "history")
		return
	}

	if entries == nil {
		entries = []model.MonthEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user, "history": entries})
}

type deleteMonthRequest struct {
	UID     string `json:"uid"`
	MonthID string `json:"monthId"`
}

func (s *Server) handleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	var req deleteMonthRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UID == "" || req.MonthID == "" {
		respondError(w, http.StatusBadRequest, "uid and monthId are required")
		return
	}

	if err := s.store.DeleteMonth(r.Context(), req.UID, req.MonthID); err != nil {
		respondStoreError(w, err, "delete month")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	var req uidRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UID == "" {
		respondError(w, http.StatusBadRequest, "uid is required")
		return
	}

	p, err := s.store.LatestPortfolio(r.Context(), req.UID)
	if err != nil {
		respondStoreError(w, err, "portfolio")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

type budgetsRequest struct {
	UID     string                 `json:"uid"`
	Action  string                 `json:"action"`
	Budgets []model.CategoryBudget `json:"budgets"`
	Month   string                 `json:"month"`
	Actuals []model.CategoryActual `json:"actuals"`
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	var req budgetsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UID == "" {
		respondError(w, http.StatusBadRequest, "uid is required")
		return
	}

	ctx := r.Context()
	switch req.Action {
	case "save-budgets":
		if err := s.store.SaveBudgets(ctx, req.UID, req.Budgets); err != nil {
			respondStoreError(w, err, "save budgets")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"success": true})

	case "save-actuals":
		if req.Month == "" {
			respondError(w, http.StatusBadRequest, "month is required")
			return
		}
		if err := s.store.SaveActuals(ctx, req.UID, req.Month, req.Actuals); err != nil {
			respondStoreError(w, err, "save actuals")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"success": true})

	case "get":
		budgets, err := s.store.GetBudgets(ctx, req.UID)
		if err != nil {
			respondStoreError(w, err, "get budgets")
			return
		}
		var actuals []model.CategoryActual
		if req.Month != "" {
			if actuals, err = s.store.GetActuals(ctx, req.UID, req.Month); err != nil {
				respondStoreError(w, err, "get actuals")
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]any{"budgets": budgets, "actuals": actuals})

	default:
		respondError(w, http.StatusBadRequest, "invalid action")
	}
}

type settingsRequest struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Currency string `json:"currency"`
}

// currencySymbols maps supported currency codes to display symbols.
var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"AED": "د.إ",
	"SGD": "S$",
	"AUD": "A$",
	"CAD": "C$",
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UID == "" {
		respondError(w, http.StatusBadRequest, "uid is required")
		return
	}

	user := model.User{UID: req.UID, CurrencySymbol: "₹"}
	if existing, err := s.store.GetUser(r.Context(), req.UID); err == nil {
		user = *existing
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if sym, ok := currencySymbols[strings.ToUpper(req.Currency)]; ok {
		user.CurrencySymbol = sym
	}

	if err := s.store.UpsertUser(r.Context(), user); err != nil {
		respondStoreError(w, err, "settings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "currencySymbol": user.CurrencySymbol})
}

type joinRequest struct {
	UID       string `json:"uid"`
	Username  string `json:"username"`
	GroupCode string `json:"groupCode"`
}

func (s *Server) handleLeaderboardJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UID == "" || req.Username == "" || req.GroupCode == "" {
		respondError(w, http.StatusBadRequest, "uid, username, and groupCode are required")
		return
	}
	code := normalizeGroupCode(req.GroupCode)

	score := 0
	if p, err := s.store.LatestPortfolio(r.Context(), req.UID); err == nil {
		score = p.Score
	}

	err := s.store.UpsertMember(r.Context(), code, model.Member{
		UID:      req.UID,
		Username: req.Username,
		Score:    score,
	})
	if err != nil {
		respondStoreError(w, err, "leaderboard join")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "code": code})
}

type scoresRequest struct {
	UID       string `json:"uid"`
	GroupCode string `json:"groupCode"`
}

func (s *Server) handleLeaderboardScores(w http.ResponseWriter, r *http.Request) {
	var req scoresRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.GroupCode == "" {
		respondError(w, http.StatusBadRequest, "groupCode is required")
		return
	}
	code := normalizeGroupCode(req.GroupCode)
	ctx := r.Context()

	// Sync the caller's latest score before listing, so the board never
	// shows a member their own stale number.
	if req.UID != "" {
		if p, err := s.store.LatestPortfolio(ctx, req.UID); err == nil {
			username := "User"
			if u, err := s.store.GetUser(ctx, req.UID); err == nil && u.Username != "" {
				username = u.Username
			}
			if err := s.store.UpsertMember(ctx, code, model.Member{
				UID:      req.UID,
				Username: username,
				Score:    p.Score,
			}); err != nil {
				respondStoreError(w, err, "leaderboard sync")
				return
			}
		}
	}

	members, err := s.store.GroupMembers(ctx, code)
	if err != nil {
		respondStoreError(w, err, "leaderboard scores")
		return
	}
	if members == nil {
		members = []model.Member{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"members": members, "code": code})
}

func normalizeGroupCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
