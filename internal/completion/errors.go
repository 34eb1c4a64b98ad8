package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/money-gurus/guru-server/pkg/openrouter"
)

// FailureKind classifies why an attempt, or the whole pipeline, failed.
type FailureKind string

const (
	// KindTransport covers network-level failures (DNS, reset, timeout).
	KindTransport FailureKind = "transport_error"
	// KindRateLimited is HTTP 429 from the completion API.
	KindRateLimited FailureKind = "rate_limited"
	// KindHTTP is any other non-2xx status, or an error object embedded
	// in an otherwise-2xx body.
	KindHTTP FailureKind = "http_error"
	// KindEmptyContent is a 2xx response with no usable message text.
	KindEmptyContent FailureKind = "empty_content"
	// KindDecode is a successful completion whose content cannot be
	// turned into the requested shape.
	KindDecode FailureKind = "decode_failure"
	// KindDeadline means the caller's context expired mid-chain.
	KindDeadline FailureKind = "deadline_exceeded"
)

// Error is the terminal failure of a pipeline run. It carries the kind
// and human-readable summary of the last attempt's failure, not the full
// attempt history; per-attempt detail is logged as it happens.
type Error struct {
	Kind    FailureKind
	Summary string
}

func (e *Error) Error() string {
	return fmt.Sprintf("completion: %s: %s", e.Kind, e.Summary)
}

// KindOf extracts the failure kind from a pipeline error. Returns
// KindTransport for unrecognized errors.
func KindOf(err error) FailureKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindTransport
}

// classify maps a client error to an attempt failure kind and summary.
func classify(err error) (FailureKind, string) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindDeadline, err.Error()
	}
	var apiErr *openrouter.APIError
	if errors.As(err, &apiErr) {
		if apiErr.RateLimited() {
			return KindRateLimited, "rate limited"
		}
		if apiErr.Message != "" {
			return KindHTTP, apiErr.Message
		}
		return KindHTTP, fmt.Sprintf("HTTP %d", apiErr.StatusCode)
	}
	return KindTransport, err.Error()
}
