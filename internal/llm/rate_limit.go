package llm

import (
	"context"
	"time"

	"aiba/internal/llmclient"
)

// rpsLimiter is a lightweight token-bucket limiter that throttles to at most
// R requests per second with an optional burst capacity.
type rpsLimiter struct {
	tokens chan struct{}
	stopCh chan struct{}
}

// newRPSLimiter creates a limiter that allows up to rps events per second
// with a burst capacity of 'burst'. If rps <= 0, the limiter is disabled
// (Acquire becomes a no-op).
func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	l := &rpsLimiter{
		tokens: make(chan struct{}, burst),
		stopCh: make(chan struct{}),
	}

	// Pre-fill bucket to allow an initial burst.
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}

	period := time.Duration(float64(time.Second) / rps)
	if period <= 0 {
		period = time.Millisecond // safeguard
	}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case l.tokens <- struct{}{}:
				default:
					// bucket full; drop token
				}
			case <-l.stopCh:
				return
			}
		}
	}()

	return l
}

// Acquire blocks until a token is available or the context is canceled.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopCh:
		return context.Canceled
	case <-l.tokens:
		return nil
	}
}

// Stop terminates the limiter's refill goroutine.
func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	select {
	case <-l.stopCh:
	default:
		close(l.stopCh)
	}
}

// WithRateLimit throttles outbound requests to at most rps per second with
// the given burst. Zero rps disables the limiter.
func WithRateLimit(rps float64, burst int) Middleware {
	limiter := newRPSLimiter(rps, burst)
	return func(next llmclient.Client) llmclient.Client {
		return &rateLimited{next: next, limiter: limiter}
	}
}

type rateLimited struct {
	next    llmclient.Client
	limiter *rpsLimiter
}

func (r *rateLimited) Name() string { return r.next.Name() }
func (r *rateLimited) Close() error {
	r.limiter.Stop()
	return r.next.Close()
}
func (r *rateLimited) CountTokens(text string) int {
	return r.next.CountTokens(text)
}

func (r *rateLimited) Complete(ctx context.Context, req llmclient.Request) (string, error) {
	if err := r.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	return r.next.Complete(ctx, req)
}
