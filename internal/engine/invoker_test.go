package engine

import (
	"context"
	"errors"
	"testing"

	"aiba/internal/llmclient"
)

func TestInvokeFallsBackInOrder(t *testing.T) {
	a := &fakeLLM{name: "a", err: errors.New("rate limited")}
	b := &fakeLLM{name: "b", replies: []string{"hello"}}
	iv := newTestInvoker(a, b)

	text, backend, err := iv.Invoke(context.Background(), "sys",
		[]llmclient.Message{{Role: llmclient.RoleUser, Content: "hi"}}, InvokeOptions{})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if text != "hello" || backend != "b" {
		t.Fatalf("got (%q, %q), want (hello, b)", text, backend)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("calls a=%d b=%d, want one each", a.calls, b.calls)
	}
}

func TestInvokeAllBackendsExhausted(t *testing.T) {
	lastErr := errors.New("final failure")
	a := &fakeLLM{name: "a", err: errors.New("first failure")}
	b := &fakeLLM{name: "b", err: lastErr}
	iv := newTestInvoker(a, b)

	_, _, err := iv.Invoke(context.Background(), "", nil, InvokeOptions{})
	var exhausted *AllBackendsExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want *AllBackendsExhaustedError", err)
	}
	if !errors.Is(exhausted, lastErr) && !errors.Is(errors.Unwrap(exhausted), lastErr) {
		t.Fatalf("exhausted error does not carry last attempt error: %v", exhausted)
	}
}

func TestInvokeForceBackendDisablesFallback(t *testing.T) {
	a := &fakeLLM{name: "a", err: errors.New("down")}
	b := &fakeLLM{name: "b", replies: []string{"should not be used"}}
	iv := newTestInvoker(a, b)

	_, _, err := iv.Invoke(context.Background(), "", nil, InvokeOptions{ForceBackend: "a"})
	if err == nil {
		t.Fatal("forced call to a dead backend must fail")
	}
	var exhausted *AllBackendsExhaustedError
	if errors.As(err, &exhausted) {
		t.Fatalf("forced failure must propagate directly, got %v", err)
	}
	if b.calls != 0 {
		t.Fatalf("backend b was called %d times with fallback disabled", b.calls)
	}
}

func TestInvokeUnregisteredBackendAdvancesChain(t *testing.T) {
	cat := llmclient.NewCatalog()
	ok := &fakeLLM{name: "real", replies: []string{"fine"}}
	_ = cat.Register(llmclient.Registration{
		ID: "real", Provider: "fake", Model: "real",
		Factory: func(ctx context.Context) (llmclient.Client, error) { return ok, nil },
	})
	iv := NewInvoker(cat, []string{"ghost", "real"}, nil)

	text, backend, err := iv.Invoke(context.Background(), "", nil, InvokeOptions{})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if text != "fine" || backend != "real" {
		t.Fatalf("got (%q, %q), want (fine, real)", text, backend)
	}
}

func TestInvokeStatelessAcrossCalls(t *testing.T) {
	a := &fakeLLM{name: "a", err: errors.New("down")}
	b := &fakeLLM{name: "b", replies: []string{"one", "two"}}
	iv := newTestInvoker(a, b)

	for i := 0; i < 2; i++ {
		if _, _, err := iv.Invoke(context.Background(), "", nil, InvokeOptions{}); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	// A failed backend is still tried first on the next call.
	if a.calls != 2 {
		t.Fatalf("backend a tried %d times, want 2", a.calls)
	}
}
