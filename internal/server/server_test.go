package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/money-gurus/guru-server/internal/advisor"
	"github.com/money-gurus/guru-server/internal/completion"
	"github.com/money-gurus/guru-server/internal/model"
	"github.com/money-gurus/guru-server/internal/store"
	"github.com/money-gurus/guru-server/pkg/openrouter"
)

// scriptedClient returns canned outcomes per call, in order.
type scriptedClient struct {
	replies []scripted
	calls   int
}

type scripted struct {
	content string
	err     error
}

func (c *scriptedClient) ChatCompletion(_ context.Context, _ openrouter.ChatCompletionRequest) (*openrouter.ChatCompletionResponse, error) {
	s := c.replies[c.calls]
	c.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &openrouter.ChatCompletionResponse{
		Choices: []openrouter.Choice{{Message: openrouter.Message{Role: "assistant", Content: s.content}}},
	}, nil
}

type testEnv struct {
	srv    *Server
	store  *store.SQLiteStore
	client *scriptedClient
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	client := &scriptedClient{}
	pipeline := completion.NewPipeline(client, completion.WithBackoff(time.Millisecond))
	adv, err := advisor.New(pipeline, advisor.Models{
		Score: []string{"score-a", "score-b"},
		Chat:  []string{"chat-a", "chat-b"},
		Goal:  []string{"goal-a", "goal-b"},
	})
	require.NoError(t, err)

	return &testEnv{
		srv:    New(st, adv, opts...),
		store:  st,
		client: client,
	}
}

func (e *testEnv) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScore_Success(t *testing.T) {
	env := newTestEnv(t)
	env.client.replies = []scripted{
		{content: `{"score": 120, "advice": ["**Strength:** ok","Risk: ok","Action: ok","Investment Strategy: ok","Emergency Planning: ok","Lifestyle Tip: ok"]}`},
	}

	rec := env.post(t, "/api/score", map[string]any{
		"income": 50000, "recurring": 20000, "leisure": 5000,
		"savings": 10000, "emergency": 5000, "investment": 10000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeInto[completion.ScoreAdvicePayload](t, rec)
	assert.Equal(t, 10, payload.Score)
	require.Len(t, payload.Advice, 6)
	assert.Equal(t, "Strength: ok", payload.Advice[0])
}

func TestScore_AllModelsFail(t *testing.T) {
	env := newTestEnv(t)
	rateLimited := &openrouter.APIError{StatusCode: http.StatusTooManyRequests, Message: "rate limited"}
	env.client.replies = []scripted{{err: rateLimited}, {err: rateLimited}}

	rec := env.post(t, "/api/score", map[string]any{"income": 1})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeInto[map[string]string](t, rec)
	assert.Contains(t, body["error"], "All AI models failed")
	assert.Equal(t, 2, env.client.calls)
}

func TestScore_DecodeFailureIsBadGateway(t *testing.T) {
	env := newTestEnv(t)
	env.client.replies = []scripted{{content: "I refuse to answer in JSON"}}

	rec := env.post(t, "/api/score", map[string]any{"income": 1})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	// Decode failure is terminal: the second candidate was never called.
	assert.Equal(t, 1, env.client.calls)
}

func TestScore_NotConfigured(t *testing.T) {
	env := newTestEnv(t, WithAIConfigured(false))

	rec := env.post(t, "/api/score", map[string]any{"income": 1})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeInto[map[string]string](t, rec)
	assert.Equal(t, "AI service not configured", body["error"])
	assert.Zero(t, env.client.calls, "no attempts when the credential is missing")
}

func TestChat(t *testing.T) {
	env := newTestEnv(t)
	env.client.replies = []scripted{{content: "**Save**  more   every month."}}

	rec := env.post(t, "/api/chat", map[string]any{
		"message":   "how do I improve?",
		"portfolio": model.Portfolio{Income: 50000},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeInto[map[string]string](t, rec)
	assert.Equal(t, "Save more every month.", body["reply"])
}

func TestChat_MissingMessage(t *testing.T) {
	env := newTestEnv(t)
	rec := env.post(t, "/api/chat", map[string]any{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoalPlan(t *testing.T) {
	env := newTestEnv(t)
	env.client.replies = []scripted{{content: `{
		"goalSummary": "Save for a laptop",
		"feasibility": "Achievable",
		"feasibilityReason": "Plenty of slack",
		"monthlyPlan": [
			{"month":1,"targetSavings":10000,"leisureBudget":4000,"adjustments":"Trim subscriptions"},
			{"month":2,"targetSavings":11000,"leisureBudget":3500,"adjustments":"Cook at home"}
		],
		"totalProjected": 21000,
		"keyChanges": ["trim subscriptions"]
	}`}}

	rec := env.post(t, "/api/goal-plan", map[string]any{
		"goal": "buy a laptop", "months": 2,
		"portfolio": model.Portfolio{Income: 50000, Score: 7},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	plan := decodeInto[completion.GoalPlanPayload](t, rec)
	assert.Equal(t, "Save for a laptop", plan.GoalSummary)
	require.Len(t, plan.MonthlyPlan, 2)
}

func TestGoalPlan_Validation(t *testing.T) {
	env := newTestEnv(t)
	for name, body := range map[string]map[string]any{
		"missing goal":   {"months": 3},
		"missing months": {"goal": "x"},
		"zero months":    {"goal": "x", "months": 0},
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.post(t, "/api/goal-plan", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestNewMonthHistoryDelete(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post(t, "/api/new-month", map[string]any{
		"uid": "user-1", "income": 50000, "recurring": 20000,
		"savings": 10000, "score": 8, "advice": []string{"Strength: ok"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeInto[map[string]any](t, rec)
	monthID, _ := created["monthId"].(string)
	require.NotEmpty(t, monthID)

	rec = env.post(t, "/api/history", map[string]any{"uid": "user-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		User    *model.User       `json:"user"`
		History []model.MonthEntry `json:"history"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	require.Len(t, history.History, 1)
	assert.Equal(t, monthID, history.History[0].ID)
	assert.Nil(t, history.User)

	rec = env.post(t, "/api/delete-month", map[string]any{"uid": "user-1", "monthId": monthID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.post(t, "/api/delete-month", map[string]any{"uid": "user-1", "monthId": monthID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewMonth_MissingUID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.post(t, "/api/new-month", map[string]any{"income": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBudgetsRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post(t, "/api/budgets", map[string]any{
		"uid": "user-1", "action": "save-budgets",
		"budgets": []model.CategoryBudget{{Category: "Groceries", Limit: 8000}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.post(t, "/api/budgets", map[string]any{
		"uid": "user-1", "action": "save-actuals", "month": "2026-02",
		"actuals": []model.CategoryActual{{Category: "Groceries", Spent: 7500}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.post(t, "/api/budgets", map[string]any{
		"uid": "user-1", "action": "get", "month": "2026-02",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Budgets []model.CategoryBudget `json:"budgets"`
		Actuals []model.CategoryActual `json:"actuals"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Budgets, 1)
	require.Len(t, got.Actuals, 1)
	assert.Equal(t, 7500.0, got.Actuals[0].Spent)

	rec = env.post(t, "/api/budgets", map[string]any{"uid": "user-1", "action": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaderboardJoinAndScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Give user-1 a portfolio score to sync onto the board.
	require.NoError(t, env.store.SaveMonth(ctx, model.MonthEntry{
		ID: "m1", UID: "user-1", Month: "2026-01", Score: 8,
		Advice: []string{}, CreatedAt: "2026-01-01T00:00:00Z",
	}))
	require.NoError(t, env.store.UpsertUser(ctx, model.User{UID: "user-1", Username: "asha", CurrencySymbol: "₹"}))

	rec := env.post(t, "/api/leaderboard/join", map[string]any{
		"uid": "user-2", "username": "ravi", "groupCode": " fam123 ",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	joined := decodeInto[map[string]any](t, rec)
	assert.Equal(t, "FAM123", joined["code"])

	rec = env.post(t, "/api/leaderboard/scores", map[string]any{
		"uid": "user-1", "groupCode": "fam123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var scores struct {
		Members []model.Member `json:"members"`
		Code    string         `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&scores))
	assert.Equal(t, "FAM123", scores.Code)
	require.Len(t, scores.Members, 2)
	assert.Equal(t, "asha", scores.Members[0].Username)
	assert.Equal(t, 8, scores.Members[0].Score)
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.UpsertUser(ctx, model.User{UID: "user-1", Username: "asha", CurrencySymbol: "₹"}))
	require.NoError(t, env.store.SaveMonth(ctx, model.MonthEntry{
		ID: "m1", UID: "user-1", Month: "2026-01", Income: 50000, Savings: 10000,
		Score: 8, Advice: []string{}, CreatedAt: "2026-01-01T00:00:00Z",
	}))

	rec := env.get(t, "/api/export?uid=user-1&format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "MoneyGuru Financial History - asha")
	assert.Contains(t, rec.Body.String(), "2026-01")
}

func TestExport_BadFormat(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get(t, "/api/export?uid=user-1&format=pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_MissingUID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get(t, "/api/export")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post(t, "/api/settings", map[string]any{
		"uid": "user-1", "username": "asha", "currency": "usd",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeInto[map[string]any](t, rec)
	assert.Equal(t, "$", body["currencySymbol"])

	u, err := env.store.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "asha", u.Username)
	assert.Equal(t, "$", u.CurrencySymbol)
}
