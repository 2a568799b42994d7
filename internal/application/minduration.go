package application

import (
	"context"
	"time"
)

// WithMinDuration runs fn and returns its error no sooner than d after the
// call started. When fn takes longer than d it returns as soon as fn does.
// The wait is cut short if ctx is canceled; fn's error is still returned.
func WithMinDuration(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)

	remaining := d - time.Since(start)
	if remaining <= 0 {
		return err
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	return err
}
