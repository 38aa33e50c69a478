package engine

import (
	"errors"
	"fmt"
)

// ErrNoQuestion reports that question generation produced nothing usable
// after every backend was tried.
var ErrNoQuestion = errors.New("no question produced")

// ErrSynthesisFailed reports that document synthesis failed on the preferred
// backend and on every fallback.
var ErrSynthesisFailed = errors.New("document synthesis failed")

// InvalidInputError flags a caller-supplied field that fails validation
// before any model is consulted.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

// AllBackendsExhaustedError is returned by the invoker when every backend in
// the priority order has been attempted and failed. Last carries the error
// from the final attempt so callers can log the proximate cause.
type AllBackendsExhaustedError struct {
	Last error
}

func (e *AllBackendsExhaustedError) Error() string {
	if e.Last == nil {
		return "all backends exhausted"
	}
	return fmt.Sprintf("all backends exhausted: last error: %v", e.Last)
}

func (e *AllBackendsExhaustedError) Unwrap() error { return e.Last }
