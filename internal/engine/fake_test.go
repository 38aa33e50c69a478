package engine

import (
	"context"
	"errors"

	"aiba/internal/llmclient"
)

// fakeLLM is a scripted backend for tests. Each call pops the next scripted
// step; running past the script repeats the last step.
type fakeLLM struct {
	name    string
	replies []string
	err     error
	calls   int
	lastReq llmclient.Request
}

func (f *fakeLLM) Name() string                { return f.name }
func (f *fakeLLM) Close() error                { return nil }
func (f *fakeLLM) CountTokens(text string) int { return llmclient.CountTokens(text) }

func (f *fakeLLM) Complete(_ context.Context, req llmclient.Request) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("fake: no scripted reply")
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

// newTestInvoker registers the given fakes in priority order and returns an
// invoker over them.
func newTestInvoker(fakes ...*fakeLLM) *Invoker {
	cat := llmclient.NewCatalog()
	priority := make([]string, 0, len(fakes))
	for _, f := range fakes {
		f := f
		_ = cat.Register(llmclient.Registration{
			ID:       f.name,
			Provider: "fake",
			Model:    f.name,
			Factory: func(ctx context.Context) (llmclient.Client, error) {
				return f, nil
			},
		})
		priority = append(priority, f.name)
	}
	return NewInvoker(cat, priority, nil)
}

// failingInvoker returns an invoker whose every backend errors.
func failingInvoker() *Invoker {
	return newTestInvoker(
		&fakeLLM{name: "dead-a", err: errors.New("boom")},
		&fakeLLM{name: "dead-b", err: errors.New("boom")},
	)
}
