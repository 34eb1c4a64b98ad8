// Package advisor exposes the three AI operations of the application:
// score evaluation, conversational advice, and goal planning. It renders
// prompts and delegates execution to the completion pipeline.
package advisor

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/money-gurus/guru-server/internal/completion"
	"github.com/money-gurus/guru-server/internal/model"
)

// generation parameters per operation, matching the prompt sizes.
const (
	scoreMaxTokens = 600
	goalMaxTokens  = 1200
)

var defaultTemperature = 0.3

// Models lists the candidate fallback chains per operation.
type Models struct {
	Score []string
	Chat  []string
	Goal  []string
}

// Advisor runs the AI operations through a completion pipeline.
type Advisor struct {
	pipeline *completion.Pipeline
	models   Models
}

// New creates an Advisor.
func New(pipeline *completion.Pipeline, models Models) (*Advisor, error) {
	if len(models.Score) == 0 || len(models.Chat) == 0 || len(models.Goal) == 0 {
		return nil, eris.New("advisor: every operation needs at least one candidate model")
	}
	return &Advisor{pipeline: pipeline, models: models}, nil
}

// EvaluateScore scores one month of figures and returns advice lines.
func (a *Advisor) EvaluateScore(ctx context.Context, p model.Portfolio) (*completion.ScoreAdvicePayload, error) {
	temp := defaultTemperature
	result, err := a.pipeline.Complete(ctx, completion.Request{
		Models:      a.models.Score,
		Prompt:      ScorePrompt(p),
		MaxTokens:   scoreMaxTokens,
		Temperature: &temp,
		Shape:       completion.ScoreAdvice,
	})
	if err != nil {
		return nil, err
	}
	return result.ScoreAdvice, nil
}

// Chat answers a free-form question against the user's portfolio.
func (a *Advisor) Chat(ctx context.Context, message string, p model.Portfolio) (string, error) {
	result, err := a.pipeline.Complete(ctx, completion.Request{
		Models: a.models.Chat,
		Prompt: ChatPrompt(message, p),
		Shape:  completion.FreeText,
	})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// PlanGoal produces a validated month-by-month savings plan.
func (a *Advisor) PlanGoal(ctx context.Context, goal string, months int, p model.Portfolio) (*completion.GoalPlanPayload, error) {
	temp := defaultTemperature
	result, err := a.pipeline.Complete(ctx, completion.Request{
		Models:      a.models.Goal,
		Prompt:      GoalPrompt(goal, months, p),
		MaxTokens:   goalMaxTokens,
		Temperature: &temp,
		Shape:       completion.GoalPlan,
		GoalMonths:  months,
	})
	if err != nil {
		return nil, err
	}
	return result.GoalPlan, nil
}
