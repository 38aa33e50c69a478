package llmclient

import "context"

// Message roles used on the wire. Providers that use different labels map
// these in their own client.
const (
	RoleSystem    = "system"
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Message is one prior conversation turn handed to a backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single chat-completion call. System carries the persona,
// Messages the prior turns, and the last user message closes the prompt.
type Request struct {
	System      string
	Messages    []Message
	Temperature float32
	MaxTokens   int
	// JSONOnly asks the backend for a machine-parseable JSON object reply
	// where the provider supports a response format hint.
	JSONOnly bool
}

// Client defines the interface for text-completion providers. Cross-cutting
// concerns (rate limiting, logging, hooks) are applied via Middleware.
type Client interface {
	Name() string
	Close() error
	CountTokens(text string) int
	Complete(ctx context.Context, req Request) (string, error)
}
