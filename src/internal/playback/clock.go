// FILE: pathfinder/src/internal/playback/clock.go
package playback

import (
	"context"
	"time"
)

// Clock performs the real-time waits between batches.
type Clock interface {
	// Sleep blocks for d or until ctx is done
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on the wall clock.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ScaleDelay converts an original timestamp delta into the wait applied
// during playback. scale must be positive.
func ScaleDelay(delta time.Duration, scale float64) time.Duration {
	return time.Duration(float64(delta) / scale)
}
