package llm

import (
	"context"
	"sync"
	"time"
)

// Deferred is a Provider whose backing provider is resolved after
// construction, once model initialization has finished. Readiness resolves
// exactly once; callers wait at most the configured timeout for it.
type Deferred struct {
	timeout time.Duration

	once  sync.Once
	ready chan struct{}
	inner Provider
	err   error
}

var _ StreamingProvider = (*Deferred)(nil)

// NewDeferred creates an unresolved provider. A non-positive timeout means
// callers never wait: an unresolved provider is reported as not ready.
func NewDeferred(timeout time.Duration) *Deferred {
	return &Deferred{timeout: timeout, ready: make(chan struct{})}
}

// Resolve marks the provider ready. Only the first Resolve or Fail has any effect.
func (d *Deferred) Resolve(p Provider) {
	d.once.Do(func() {
		d.inner = p
		close(d.ready)
	})
}

// Fail marks initialization as failed. Only the first Resolve or Fail has any effect.
func (d *Deferred) Fail(err error) {
	d.once.Do(func() {
		d.err = err
		close(d.ready)
	})
}

// Ready reports without blocking whether a provider has been resolved.
func (d *Deferred) Ready() bool {
	select {
	case <-d.ready:
		return d.err == nil
	default:
		return false
	}
}

// Wait blocks until the provider resolves, the timeout elapses or ctx ends.
func (d *Deferred) Wait(ctx context.Context) (Provider, error) {
	select {
	case <-d.ready:
		return d.resolved()
	default:
	}
	if d.timeout <= 0 {
		return nil, &ErrNotReady{}
	}

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case <-d.ready:
		return d.resolved()
	case <-timer.C:
		return nil, &ErrNotReady{}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Deferred) resolved() (Provider, error) {
	if d.err != nil {
		return nil, &ErrNotReady{Err: d.err}
	}
	return d.inner, nil
}

func (d *Deferred) Generate(ctx context.Context, req Request) (*Response, error) {
	p, err := d.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return p.Generate(ctx, req)
}

// GenerateStream streams when the resolved provider supports it and
// otherwise delivers the blocking result as a single fragment.
func (d *Deferred) GenerateStream(ctx context.Context, req Request, onPartial func(string)) (*Response, error) {
	p, err := d.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return Stream(ctx, p, req, onPartial)
}

func (d *Deferred) ModelID() string {
	if d.Ready() {
		return d.inner.ModelID()
	}
	return "pending"
}

// Stream calls GenerateStream when p supports streaming, and Generate
// followed by a single onPartial call otherwise.
func Stream(ctx context.Context, p Provider, req Request, onPartial func(string)) (*Response, error) {
	if sp, ok := p.(StreamingProvider); ok {
		return sp.GenerateStream(ctx, req, onPartial)
	}
	resp, err := p.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if onPartial != nil && len(resp.Content) > 0 {
		onPartial(resp.Text())
	}
	return resp, nil
}
