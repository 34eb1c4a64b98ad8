package completion

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// decodeScoreAdvice turns raw model output into a ScoreAdvicePayload.
// The score is normalized into [0, 10] and every advice line is
// sanitized. A missing advice array is accepted as empty; no length
// check happens here.
func decodeScoreAdvice(raw string) (*ScoreAdvicePayload, error) {
	span, err := ExtractObject(stripFences(raw))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Score  any      `json:"score"`
		Advice []string `json:"advice"`
	}
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, eris.Wrap(err, "decode: parse score response")
	}

	advice := make([]string, 0, len(parsed.Advice))
	for _, a := range parsed.Advice {
		advice = append(advice, Sanitize(a))
	}

	return &ScoreAdvicePayload{
		Score:  NormalizeScore(parsed.Score),
		Advice: advice,
	}, nil
}

// decodeGoalPlan turns raw model output into a validated GoalPlanPayload.
// Unlike the score path, every field is checked: a plan that parses but
// is structurally wrong is a decode failure, not a payload.
func decodeGoalPlan(raw string, months int) (*GoalPlanPayload, error) {
	span, err := ExtractObject(stripFences(raw))
	if err != nil {
		return nil, err
	}

	var plan GoalPlanPayload
	if err := json.Unmarshal([]byte(span), &plan); err != nil {
		return nil, eris.Wrap(err, "decode: parse goal plan")
	}

	if err := validateGoalPlan(&plan, months); err != nil {
		return nil, err
	}
	return &plan, nil
}

func validateGoalPlan(plan *GoalPlanPayload, months int) error {
	if plan.GoalSummary == "" {
		return eris.New("decode: goal plan missing goalSummary")
	}
	switch plan.Feasibility {
	case FeasibilityAchievable, FeasibilityChallenging, FeasibilityVeryAmbitious:
	default:
		return eris.Errorf("decode: goal plan has invalid feasibility %q", plan.Feasibility)
	}
	if plan.FeasibilityReason == "" {
		return eris.New("decode: goal plan missing feasibilityReason")
	}
	if months > 0 && len(plan.MonthlyPlan) != months {
		return eris.Errorf("decode: goal plan has %d months, want %d", len(plan.MonthlyPlan), months)
	}
	for i, m := range plan.MonthlyPlan {
		if m.Month <= 0 {
			return eris.Errorf("decode: goal plan month %d has non-positive month number", i+1)
		}
		if m.Adjustments == "" {
			return eris.Errorf("decode: goal plan month %d missing adjustments", m.Month)
		}
	}
	if plan.Warning != nil && *plan.Warning == "" {
		plan.Warning = nil
	}
	return nil
}
