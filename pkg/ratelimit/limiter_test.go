package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLimiterHasServiceBudgets(t *testing.T) {
	m := NewDefaultLimiter()

	for _, name := range []string{LimiterAnthropic, LimiterUnsplash, LimiterSheets} {
		assert.True(t, m.Allow(name), "first request for %s should pass the burst", name)
	}
}

func TestUnknownLimiter(t *testing.T) {
	m := NewMultiLimiter()

	assert.False(t, m.Allow("missing"))
	err := m.Wait(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestWaitHonoursCancelledContext(t *testing.T) {
	m := NewMultiLimiter()
	m.AddLimiter("slow", 0.0001, 1)
	require.True(t, m.Allow("slow"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, m.Wait(ctx, "slow"))
}
