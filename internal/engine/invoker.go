package engine

import (
	"context"
	"log"

	"aiba/internal/llmclient"
)

// Invoker resolves model calls through an ordered list of backend IDs.
// Each backend gets exactly one attempt per call; any failure, whatever its
// kind, advances to the next backend in the order. State never leaks between
// calls, so a backend that failed once is still tried first next time.
type Invoker struct {
	catalog  *llmclient.Catalog
	priority []string
	log      *log.Logger
}

// InvokeOptions tunes a single model call. ForceBackend pins the call to one
// backend and disables fallback entirely.
type InvokeOptions struct {
	Temperature  float32
	MaxTokens    int
	JSONOnly     bool
	ForceBackend string
}

// NewInvoker builds an invoker over the catalog with the given priority
// order. The order is copied; later mutation of the caller's slice has no
// effect.
func NewInvoker(catalog *llmclient.Catalog, priority []string, logger *log.Logger) *Invoker {
	if logger == nil {
		logger = log.Default()
	}
	order := make([]string, len(priority))
	copy(order, priority)
	return &Invoker{catalog: catalog, priority: order, log: logger}
}

// Priority returns a copy of the backend order.
func (iv *Invoker) Priority() []string {
	out := make([]string, len(iv.priority))
	copy(out, iv.priority)
	return out
}

// Invoke runs one completion. It returns the reply text and the ID of the
// backend that produced it. With ForceBackend set, errors from that backend
// propagate directly; otherwise the chain is walked in order and a total
// failure surfaces as *AllBackendsExhaustedError.
func (iv *Invoker) Invoke(ctx context.Context, system string, messages []llmclient.Message, opts InvokeOptions) (string, string, error) {
	req := llmclient.Request{
		System:      system,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		JSONOnly:    opts.JSONOnly,
	}

	if opts.ForceBackend != "" {
		text, err := iv.attempt(ctx, opts.ForceBackend, req)
		if err != nil {
			return "", "", err
		}
		return text, opts.ForceBackend, nil
	}

	var lastErr error
	for _, id := range iv.priority {
		text, err := iv.attempt(ctx, id, req)
		if err != nil {
			iv.log.Printf("backend %s failed (%s), trying next: %v", id, llmclient.KindOf(err), err)
			lastErr = err
			continue
		}
		return text, id, nil
	}
	return "", "", &AllBackendsExhaustedError{Last: lastErr}
}

func (iv *Invoker) attempt(ctx context.Context, id string, req llmclient.Request) (string, error) {
	cli, err := iv.catalog.Client(ctx, id)
	if err != nil {
		return "", err
	}
	return cli.Complete(ctx, req)
}
