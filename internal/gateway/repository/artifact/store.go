// Package artifact stores generated documents, keyed by project and file
// name.
package artifact

import (
	"context"
	"errors"
)

// Store defines operations for persisting generated documents.
type Store interface {
	Put(ctx context.Context, projectID, name string, content []byte) error
	Get(ctx context.Context, projectID, name string) ([]byte, error)
	GetURL(ctx context.Context, projectID, name string) (string, error)
	List(ctx context.Context, projectID string) ([]string, error)
}

var ErrNotFound = errors.New("document not found")
