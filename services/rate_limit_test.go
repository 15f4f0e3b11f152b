package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestRateLimiter(clock *fakeClock) *RateLimitService {
	return &RateLimitService{
		windows:   make(map[int64]*rateWindow),
		window:    defaultRateWindow,
		maxEvents: defaultRateMaxEvents,
		now:       clock.Now,
	}
}

func TestRateLimiterSuppressesBurst(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	svc := newTestRateLimiter(clock)

	// 6 media events within 10 seconds: the 6th is suppressed
	for i := 0; i < 5; i++ {
		info := svc.Observe(42)
		assert.True(t, info.Allowed, "event %d should be allowed", i+1)
		clock.Advance(2 * time.Second)
	}

	info := svc.Observe(42)
	assert.False(t, info.Allowed)
	assert.Equal(t, 6, info.Count)
	assert.Equal(t, 0, info.Remaining)
}

func TestRateLimiterSpreadEventsAllowed(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	svc := newTestRateLimiter(clock)

	// same 6 events 61 seconds apart pairwise: none suppressed
	for i := 0; i < 6; i++ {
		info := svc.Observe(42)
		assert.True(t, info.Allowed, "event %d should be allowed", i+1)
		assert.Equal(t, 1, info.Count)
		clock.Advance(61 * time.Second)
	}
}

func TestRateLimiterResetsAtWindowBoundary(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	svc := newTestRateLimiter(clock)

	for i := 0; i < 6; i++ {
		svc.Observe(42)
	}
	assert.False(t, svc.Observe(42).Allowed)

	// exactly one window later the counter starts over
	clock.Advance(defaultRateWindow)
	info := svc.Observe(42)
	assert.True(t, info.Allowed)
	assert.Equal(t, 1, info.Count)
}

func TestRateLimiterTracksUsersIndependently(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	svc := newTestRateLimiter(clock)

	for i := 0; i < 6; i++ {
		svc.Observe(1)
	}
	assert.False(t, svc.Observe(1).Allowed)

	info := svc.Observe(2)
	assert.True(t, info.Allowed)
	assert.Equal(t, 1, info.Count)
}

func TestRateLimiterEvictsExpiredWindows(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	svc := newTestRateLimiter(clock)

	svc.Observe(1)
	svc.Observe(2)
	clock.Advance(30 * time.Second)
	svc.Observe(3)

	clock.Advance(40 * time.Second)
	evicted := svc.evictExpired()

	assert.Equal(t, 2, evicted)
	assert.Len(t, svc.windows, 1)
}
