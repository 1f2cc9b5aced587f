package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterFixedWindow(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(3, 10*time.Second)
	limiter.now = func() time.Time { return current }

	// First three messages pass.
	for i := 0; i < 3; i++ {
		ok, firstOver := limiter.allow(1)
		assert.True(t, ok, "message %d should pass", i+1)
		assert.False(t, firstOver)
	}

	// Fourth is the first over-limit message in this window.
	ok, firstOver := limiter.allow(1)
	assert.False(t, ok)
	assert.True(t, firstOver)

	// Fifth is dropped silently.
	ok, firstOver = limiter.allow(1)
	assert.False(t, ok)
	assert.False(t, firstOver)

	// Other users have independent windows.
	ok, _ = limiter.allow(2)
	assert.True(t, ok)

	// After the window elapses, the counter resets.
	current = current.Add(10 * time.Second)
	ok, firstOver = limiter.allow(1)
	assert.True(t, ok)
	assert.False(t, firstOver)
}
