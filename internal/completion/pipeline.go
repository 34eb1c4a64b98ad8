package completion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/money-gurus/guru-server/pkg/openrouter"
)

const (
	defaultBackoff        = 1 * time.Second
	defaultAttemptTimeout = 30 * time.Second
)

// Pipeline tries candidate models in priority order against the
// completion API and decodes the first non-empty success into the
// requested shape.
//
// Attempts are strictly sequential: falling back must preserve model
// priority and avoid spending quota on models that would never be
// reached. There is no per-model retry; advancing to the next candidate
// is the only retry mechanism.
type Pipeline struct {
	client         openrouter.Client
	backoff        time.Duration
	attemptTimeout time.Duration
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithBackoff sets the fixed delay between failed attempts.
func WithBackoff(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.backoff = d
	}
}

// WithAttemptTimeout bounds each individual completion call.
func WithAttemptTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.attemptTimeout = d
	}
}

// NewPipeline creates a Pipeline backed by the given client.
func NewPipeline(client openrouter.Client, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		client:         client,
		backoff:        defaultBackoff,
		attemptTimeout: defaultAttemptTimeout,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Complete runs req through the fallback chain. It returns either a
// fully decoded Result or an *Error carrying the last failure.
//
// A decode failure after a successful call is terminal: no further
// candidates are tried, because the model answered and a retry against a
// weaker model is unlikely to do better.
func (p *Pipeline) Complete(ctx context.Context, req Request) (*Result, error) {
	if len(req.Models) == 0 {
		return nil, &Error{Kind: KindHTTP, Summary: "no candidate models configured"}
	}

	var lastKind FailureKind
	lastSummary := "no models attempted"

	for i, model := range req.Models {
		raw, err := p.attempt(ctx, model, req)
		if err == nil && raw != "" {
			zap.L().Info("completion: model succeeded",
				zap.String("model", model),
				zap.Int("attempt", i+1),
				zap.String("shape", req.Shape.String()),
			)
			return p.decode(model, raw, req)
		}

		if err != nil {
			lastKind, lastSummary = classify(err)
			// A per-attempt timeout is a transport failure for that one
			// candidate; only the caller's own deadline aborts the chain.
			if lastKind == KindDeadline && ctx.Err() == nil {
				lastKind, lastSummary = KindTransport, "attempt timed out"
			}
		} else {
			lastKind, lastSummary = KindEmptyContent, "model returned empty content"
		}

		zap.L().Warn("completion: model failed, falling back",
			zap.String("model", model),
			zap.Int("attempt", i+1),
			zap.String("kind", string(lastKind)),
			zap.String("summary", lastSummary),
		)

		if ctx.Err() != nil {
			return nil, &Error{Kind: KindDeadline, Summary: lastSummary}
		}

		// Uniform fixed backoff after every failed attempt, empty
		// content included, except after the final candidate.
		if i < len(req.Models)-1 {
			if err := p.wait(ctx); err != nil {
				return nil, &Error{Kind: KindDeadline, Summary: err.Error()}
			}
		}
	}

	return nil, &Error{Kind: lastKind, Summary: lastSummary}
}

// attempt issues exactly one completion call against one model.
func (p *Pipeline) attempt(ctx context.Context, model string, req Request) (string, error) {
	attemptCtx := ctx
	if p.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, p.attemptTimeout)
		defer cancel()
	}

	apiReq := openrouter.ChatCompletionRequest{
		Model:       model,
		Messages:    []openrouter.Message{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		apiReq.MaxTokens = &req.MaxTokens
	}

	resp, err := p.client.ChatCompletion(attemptCtx, apiReq)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Pipeline) decode(model, raw string, req Request) (*Result, error) {
	switch req.Shape {
	case FreeText:
		return &Result{Model: model, Text: Sanitize(raw)}, nil
	case ScoreAdvice:
		payload, err := decodeScoreAdvice(raw)
		if err != nil {
			zap.L().Warn("completion: score decode failed",
				zap.String("model", model),
				zap.Error(err),
			)
			return nil, &Error{Kind: KindDecode, Summary: err.Error()}
		}
		return &Result{Model: model, ScoreAdvice: payload}, nil
	case GoalPlan:
		payload, err := decodeGoalPlan(raw, req.GoalMonths)
		if err != nil {
			zap.L().Warn("completion: goal plan decode failed",
				zap.String("model", model),
				zap.Error(err),
			)
			return nil, &Error{Kind: KindDecode, Summary: err.Error()}
		}
		return &Result{Model: model, GoalPlan: payload}, nil
	default:
		return nil, &Error{Kind: KindDecode, Summary: "unknown response shape"}
	}
}

func (p *Pipeline) wait(ctx context.Context) error {
	timer := time.NewTimer(p.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
