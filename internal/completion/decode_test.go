package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScoreAdvice(t *testing.T) {
	raw := "Here you go:\n```json\n{\"score\": 8, \"advice\": [\"**Strength:** solid savings\", \"*Risk:* high leisure\"]}\n```"
	payload, err := decodeScoreAdvice(raw)
	require.NoError(t, err)

	assert.Equal(t, 8, payload.Score)
	require.Len(t, payload.Advice, 2)
	assert.Equal(t, "Strength: solid savings", payload.Advice[0])
	assert.Equal(t, "Risk: high leisure", payload.Advice[1])
}

func TestDecodeScoreAdvice_MissingAdvice(t *testing.T) {
	payload, err := decodeScoreAdvice(`{"score": 4}`)
	require.NoError(t, err)
	assert.Equal(t, 4, payload.Score)
	assert.Empty(t, payload.Advice)
	assert.NotNil(t, payload.Advice)
}

func TestDecodeScoreAdvice_OverscaleScore(t *testing.T) {
	payload, err := decodeScoreAdvice(`{"score": 120, "advice": []}`)
	require.NoError(t, err)
	assert.Equal(t, 10, payload.Score)
}

func TestDecodeScoreAdvice_NonNumericScore(t *testing.T) {
	payload, err := decodeScoreAdvice(`{"score": "excellent", "advice": []}`)
	require.NoError(t, err)
	assert.Equal(t, 5, payload.Score)
}

func TestDecodeScoreAdvice_Failures(t *testing.T) {
	for name, raw := range map[string]string{
		"no json":     "I cannot help with that.",
		"broken json": `{"score": 8,`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodeScoreAdvice(raw)
			assert.Error(t, err)
		})
	}
}

const validGoalPlan = `{
  "goalSummary": "Save for a trip",
  "feasibility": "Achievable",
  "feasibilityReason": "Healthy savings rate",
  "monthlyPlan": [
    {"month": 1, "targetSavings": 5000, "leisureBudget": 2000, "adjustments": "Cut dining out"},
    {"month": 2, "targetSavings": 5500, "leisureBudget": 1800, "adjustments": "Pause subscriptions"}
  ],
  "totalProjected": 10500,
  "keyChanges": ["less dining", "fewer subscriptions"],
  "warning": null
}`

func TestDecodeGoalPlan(t *testing.T) {
	plan, err := decodeGoalPlan("```json\n"+validGoalPlan+"\n```", 2)
	require.NoError(t, err)

	assert.Equal(t, "Save for a trip", plan.GoalSummary)
	assert.Equal(t, FeasibilityAchievable, plan.Feasibility)
	require.Len(t, plan.MonthlyPlan, 2)
	assert.Equal(t, 5500.0, plan.MonthlyPlan[1].TargetSavings)
	assert.Equal(t, 10500.0, plan.TotalProjected)
	assert.Nil(t, plan.Warning)
}

func TestDecodeGoalPlan_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate string
		months int
	}{
		{"wrong month count", validGoalPlan, 3},
		{"invalid feasibility", `{"goalSummary":"x","feasibility":"Impossible","feasibilityReason":"y","monthlyPlan":[],"totalProjected":0,"keyChanges":[]}`, 0},
		{"missing summary", `{"feasibility":"Achievable","feasibilityReason":"y","monthlyPlan":[],"totalProjected":0,"keyChanges":[]}`, 0},
		{"missing reason", `{"goalSummary":"x","feasibility":"Achievable","monthlyPlan":[],"totalProjected":0,"keyChanges":[]}`, 0},
		{"non-positive month number", `{"goalSummary":"x","feasibility":"Achievable","feasibilityReason":"y","monthlyPlan":[{"month":0,"targetSavings":1,"leisureBudget":1,"adjustments":"z"}],"totalProjected":0,"keyChanges":[]}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeGoalPlan(tt.mutate, tt.months)
			assert.Error(t, err)
		})
	}
}
