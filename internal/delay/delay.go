// Package delay provides the pacing strategy used between browser
// actions. Randomized delays emulate human interaction; tests substitute
// the zero strategy.
package delay

import (
	"context"
	"math/rand"
	"time"
)

// Strategy paces browser actions. Sleeps return early with the context
// error if the context is canceled.
type Strategy interface {
	// Sleep waits for the given duration.
	Sleep(ctx context.Context, d time.Duration) error
	// SleepBetween waits for a uniformly random duration in [min, max].
	SleepBetween(ctx context.Context, min, max time.Duration) error
}

// Human is the production strategy: real sleeps with randomized jitter.
type Human struct{}

func (Human) Sleep(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

func (Human) SleepBetween(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min + 1)))
	}
	return sleep(ctx, d)
}

// Zero never waits. For tests.
type Zero struct{}

func (Zero) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func (Zero) SleepBetween(ctx context.Context, _, _ time.Duration) error {
	return ctx.Err()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
