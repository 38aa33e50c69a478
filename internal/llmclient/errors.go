package llmclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind is a coarse classification of a provider failure. The fallback chain
// treats every kind the same way (advance to the next backend); the kind is
// kept for logs and diagnostics only.
type Kind string

const (
	KindRateLimited Kind = "rate_limited"
	KindNotFound    Kind = "not_found"
	KindTimeout     Kind = "timeout"
	KindOther       Kind = "other"
)

// ErrEmptyReply indicates the provider answered with no usable text.
var ErrEmptyReply = errors.New("llmclient: empty completion")

// BackendError wraps a provider failure with the backend that produced it.
type BackendError struct {
	Backend string
	Kind    Kind
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s (%s): %v", e.Backend, e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Classify wraps err as a BackendError, deriving the kind from well-known
// error shapes when the provider did not classify it itself.
func Classify(backend string, err error) *BackendError {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be
	}
	kind := KindOther
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &ne) && ne.Timeout():
		kind = KindTimeout
	}
	return &BackendError{Backend: backend, Kind: kind, Err: err}
}

// KindOf extracts the classification from err, defaulting to KindOther.
func KindOf(err error) Kind {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindOther
}
