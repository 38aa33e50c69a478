package llm

import "aiba/internal/llmclient"

// Middleware decorates an llmclient.Client with a cross-cutting concern.
type Middleware func(llmclient.Client) llmclient.Client

// Chain composes middlewares so the first one listed is the outermost layer.
func Chain(mws ...Middleware) func(llmclient.Client) llmclient.Client {
	return func(next llmclient.Client) llmclient.Client {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
