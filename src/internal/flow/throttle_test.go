// FILE: pathfinder/src/internal/flow/throttle_test.go
package flow

import (
	"context"
	"testing"
	"time"

	"pathfinder/src/internal/config"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThrottle_Disabled(t *testing.T) {
	th := NewThrottle(config.RateLimitConfig{}, log.NewLogger())
	assert.Nil(t, th)

	// A nil throttle is usable
	assert.NoError(t, th.Wait(context.Background()))
	assert.Equal(t, false, th.GetStats()["enabled"])
}

func TestThrottle_DefaultBurst(t *testing.T) {
	th := NewThrottle(config.RateLimitConfig{Rate: 0.5}, log.NewLogger())
	require.NotNil(t, th)
	assert.Equal(t, 1, th.GetStats()["burst"])

	th = NewThrottle(config.RateLimitConfig{Rate: 20}, log.NewLogger())
	assert.Equal(t, 20, th.GetStats()["burst"])
}

func TestThrottle_Wait(t *testing.T) {
	th := NewThrottle(config.RateLimitConfig{Rate: 1000, Burst: 5}, log.NewLogger())
	require.NotNil(t, th)

	for i := 0; i < 10; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	assert.Equal(t, uint64(10), th.GetStats()["passed_total"])
}

func TestThrottle_WaitCancelled(t *testing.T) {
	th := NewThrottle(config.RateLimitConfig{Rate: 0.001, Burst: 1}, log.NewLogger())
	require.NotNil(t, th)

	// Consume the only token
	require.NoError(t, th.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, th.Wait(ctx))
}
