// Package gate bounds the number of generation calls in flight across the
// whole process. It is the system's sole backpressure mechanism: callers
// beyond capacity wait in arrival order, nothing is rejected.
package gate

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate is a counting resource gate over generation slots.
type Gate struct {
	sem *semaphore.Weighted
}

// New creates a gate with the given capacity. Capacities below one are
// clamped to one.
func New(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{sem: semaphore.NewWeighted(int64(capacity))}
}

// Acquire blocks until a slot is free or ctx is done. A nil return means the
// caller holds a slot and must Release it on every exit path.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release returns a slot to the gate.
func (g *Gate) Release() {
	g.sem.Release(1)
}
