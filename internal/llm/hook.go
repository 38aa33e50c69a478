package llm

import (
	"context"

	"aiba/internal/llmclient"
)

// PromptHook defines callbacks around LLM requests.
type PromptHook interface {
	Before(ctx context.Context, caller string, req llmclient.Request)
	After(ctx context.Context, caller string, text string, err error)
}

type ctxKeyHook struct{}
type ctxKeyCaller struct{}

// WithCaller attaches a component name to the context so middleware can
// attribute traffic to the engine component that produced it.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, ctxKeyCaller{}, caller)
}

// WithPromptHook attaches a PromptHook to the context. Middlewares that call
// HookFrom(ctx) can use this to invoke Before/After around requests.
func WithPromptHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

// CallerFrom returns the component name stored in the context.
func CallerFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyCaller{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// WithHooks calls HookFrom(ctx).Before/After around Complete. If no hook is
// present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next llmclient.Client) llmclient.Client {
		return &hooked{next: next}
	}
}

type hooked struct{ next llmclient.Client }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }
func (h *hooked) CountTokens(text string) int {
	return h.next.CountTokens(text)
}

func (h *hooked) Complete(ctx context.Context, req llmclient.Request) (string, error) {
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, CallerFrom(ctx), req)
	}
	text, err := h.next.Complete(ctx, req)
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, CallerFrom(ctx), text, err)
	}
	return text, err
}
