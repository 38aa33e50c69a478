package llm

import (
	"context"
	"log"

	"aiba/internal/llmclient"
)

// WithLogging logs request size and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next llmclient.Client) llmclient.Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) CountTokens(text string) int {
	return l.next.CountTokens(text)
}

func (l *logging) Complete(ctx context.Context, req llmclient.Request) (string, error) {
	size := len(req.System)
	for _, m := range req.Messages {
		size += len(m.Content)
	}
	l.log.Printf("LLM request (%s, %s): %d bytes", l.next.Name(), CallerFrom(ctx), size)
	text, err := l.next.Complete(ctx, req)
	if err != nil {
		l.log.Printf("LLM error (%s, %s): %v", l.next.Name(), CallerFrom(ctx), err)
	}
	return text, err
}
