// FILE: pathfinder/src/internal/flow/throttle.go
package flow

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"pathfinder/src/internal/config"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// Throttle caps how many payloads per second reach the sink. A nil Throttle
// never blocks.
type Throttle struct {
	limiter *rate.Limiter
	logger  *log.Logger

	// Statistics
	delayed     atomic.Uint64
	totalDelay  atomic.Int64 // nanoseconds
	totalPassed atomic.Uint64
}

// NewThrottle creates a throttle from configuration. Returns nil when no rate
// is configured.
func NewThrottle(cfg config.RateLimitConfig, logger *log.Logger) *Throttle {
	if cfg.Rate <= 0 {
		return nil
	}

	burst := int(cfg.Burst)
	if burst <= 0 {
		// Default burst to rate, at least one token
		burst = int(math.Max(1, math.Ceil(cfg.Rate)))
	}

	logger.Info("msg", "Send throttle enabled",
		"component", "throttle",
		"rate", cfg.Rate,
		"burst", burst)

	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), burst),
		logger:  logger,
	}
}

// Wait blocks until one send is permitted or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}

	start := time.Now()
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	if waited := time.Since(start); waited > time.Millisecond {
		t.delayed.Add(1)
		t.totalDelay.Add(int64(waited))
	}
	t.totalPassed.Add(1)
	return nil
}

// GetStats returns statistics for the throttle.
func (t *Throttle) GetStats() map[string]any {
	if t == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"enabled":      true,
		"rate":         float64(t.limiter.Limit()),
		"burst":        t.limiter.Burst(),
		"passed_total": t.totalPassed.Load(),
		"delayed":      t.delayed.Load(),
		"total_delay":  time.Duration(t.totalDelay.Load()).String(),
	}
}
