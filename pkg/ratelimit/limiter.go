package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// MultiLimiter manages multiple rate limiters for different services
type MultiLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewMultiLimiter creates a new multi-limiter
func NewMultiLimiter() *MultiLimiter {
	return &MultiLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// AddLimiter adds a new rate limiter for a service
// requestsPerSecond: the rate limit (e.g., 10 means 10 requests per second)
// burst: maximum burst size
func (m *MultiLimiter) AddLimiter(name string, requestsPerSecond float64, burst int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[name] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Wait blocks until the limiter allows an event
func (m *MultiLimiter) Wait(ctx context.Context, name string) error {
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("limiter %s not found", name)
	}

	return limiter.Wait(ctx)
}

// Allow reports whether an event may happen now
func (m *MultiLimiter) Allow(name string) bool {
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()

	if !ok {
		return false
	}

	return limiter.Allow()
}

// Limiter names
const (
	LimiterAnthropic = "anthropic"
	LimiterUnsplash  = "unsplash"
	LimiterSheets    = "sheets"
)

// Limits holds per-service request budgets
type Limits struct {
	AnthropicPerMinute int
	UnsplashPerHour    int
	SheetsPerMinute    int
}

// New creates a limiter from the configured budgets, falling back to the defaults for zero values
func New(l Limits) *MultiLimiter {
	if l.AnthropicPerMinute <= 0 {
		l.AnthropicPerMinute = 10
	}
	if l.UnsplashPerHour <= 0 {
		l.UnsplashPerHour = 50
	}
	if l.SheetsPerMinute <= 0 {
		l.SheetsPerMinute = 60
	}

	m := NewMultiLimiter()
	m.AddLimiter(LimiterAnthropic, float64(l.AnthropicPerMinute)/60, 2)
	// Unsplash demo apps get 50 requests per hour
	m.AddLimiter(LimiterUnsplash, float64(l.UnsplashPerHour)/3600, 5)
	m.AddLimiter(LimiterSheets, float64(l.SheetsPerMinute)/60, 10)
	return m
}

// NewDefaultLimiter creates a limiter with default rate limits
func NewDefaultLimiter() *MultiLimiter {
	return New(Limits{})
}
