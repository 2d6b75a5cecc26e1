package repository

import (
	"context"
	"math/rand/v2"
	"time"
)

// Latency decides how long a store operation pretends to wait on a remote
// API.  It is the simulated-latency hook; tests use NoLatency.
type Latency func() time.Duration

// NoLatency completes every operation immediately.
func NoLatency() time.Duration { return 0 }

// FixedLatency always waits d.
func FixedLatency(d time.Duration) Latency {
	return func() time.Duration { return d }
}

// UniformLatency waits a random duration in [min, max].
func UniformLatency(min, max time.Duration) Latency {
	if max < min {
		min, max = max, min
	}
	if max <= 0 {
		return NoLatency
	}
	return func() time.Duration {
		if max == min {
			return min
		}
		return min + rand.N(max-min+1)
	}
}

// sleep blocks for the simulated latency or until ctx is done.
func sleep(ctx context.Context, l Latency) error {
	if l == nil {
		return ctx.Err()
	}
	d := l()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
