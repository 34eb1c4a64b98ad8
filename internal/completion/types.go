// Package completion runs prompts against an ordered list of candidate
// models with fallback, and normalizes the raw model output into typed
// payloads.
package completion

// Shape identifies what a successful completion must decode into.
type Shape int

const (
	// FreeText accepts any non-empty sanitized string.
	FreeText Shape = iota
	// ScoreAdvice expects a JSON object with a 0-10 score and advice list.
	ScoreAdvice
	// GoalPlan expects a JSON month-by-month savings plan.
	GoalPlan
)

func (s Shape) String() string {
	switch s {
	case FreeText:
		return "free_text"
	case ScoreAdvice:
		return "score_advice"
	case GoalPlan:
		return "goal_plan"
	default:
		return "unknown"
	}
}

// Request describes one completion task. Prompt rendering is the
// caller's responsibility; the pipeline only runs and decodes it.
type Request struct {
	// Models are candidate model identifiers, tried in order.
	// First success wins. Must be non-empty.
	Models []string

	Prompt string

	// MaxTokens caps the generated output. Zero means provider default.
	MaxTokens int

	// Temperature, when non-nil, is passed through to the API.
	Temperature *float64

	Shape Shape

	// GoalMonths is the requested plan length, required when Shape is
	// GoalPlan so the decoded plan can be validated against it.
	GoalMonths int
}

// ScoreAdvicePayload is the decoded result of a ScoreAdvice completion.
type ScoreAdvicePayload struct {
	// Score is the Guru Score, always in [0, 10].
	Score int `json:"score"`
	// Advice holds sanitized advice lines. The prompt asks for six but
	// fewer are accepted; callers must tolerate short lists.
	Advice []string `json:"advice"`
}

// MonthPlan is one month of a goal plan.
type MonthPlan struct {
	Month         int     `json:"month"`
	TargetSavings float64 `json:"targetSavings"`
	LeisureBudget float64 `json:"leisureBudget"`
	Adjustments   string  `json:"adjustments"`
}

// Feasibility values accepted in a goal plan.
const (
	FeasibilityAchievable    = "Achievable"
	FeasibilityChallenging   = "Challenging"
	FeasibilityVeryAmbitious = "Very Ambitious"
)

// GoalPlanPayload is the decoded result of a GoalPlan completion.
type GoalPlanPayload struct {
	GoalSummary       string      `json:"goalSummary"`
	Feasibility       string      `json:"feasibility"`
	FeasibilityReason string      `json:"feasibilityReason"`
	MonthlyPlan       []MonthPlan `json:"monthlyPlan"`
	TotalProjected    float64     `json:"totalProjected"`
	KeyChanges        []string    `json:"keyChanges"`
	Warning           *string     `json:"warning,omitempty"`
}

// Result is a successful pipeline outcome. Exactly one payload field is
// populated, matching the request shape.
type Result struct {
	// Model is the candidate that produced the accepted output.
	Model string

	Text        string
	ScoreAdvice *ScoreAdvicePayload
	GoalPlan    *GoalPlanPayload
}
