package core

import (
	"context"
	"time"
)

// FixedTimeProvider returns a constant time, for deterministic tests
type FixedTimeProvider struct {
	Current time.Time
}

// NewFixedTimeProvider creates a time provider pinned to the given instant
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{Current: t}
}

// Now returns the pinned time
func (p *FixedTimeProvider) Now() time.Time {
	return p.Current
}

// Since returns the elapsed time relative to the pinned instant
func (p *FixedTimeProvider) Since(t time.Time) time.Duration {
	return p.Current.Sub(t)
}

// WithTimeout returns a context with the given timeout
func (p *FixedTimeProvider) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// Advance moves the pinned time forward
func (p *FixedTimeProvider) Advance(d time.Duration) {
	p.Current = p.Current.Add(d)
}
