package llm

import (
	"context"
	"time"
)

// TimeoutProvider bounds every request, retries included, by a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so that no request runs longer than d. A
// non-positive d returns p unchanged when it already streams.
func WithTimeout(p Provider, d time.Duration) StreamingProvider {
	if sp, ok := p.(StreamingProvider); ok && d <= 0 {
		return sp
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) GenerateStream(ctx context.Context, req Request, onPartial func(string)) (*Response, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return Stream(ctx, t.inner, req, onPartial)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

func (t *TimeoutProvider) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}
