package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBlocksAfterThreshold(t *testing.T) {
	rl := NewLoginRateLimiter(3, time.Minute, time.Second, 10*time.Second)

	blocked, _ := rl.IsBlocked("1.2.3.4", "jdoe")
	assert.False(t, blocked)

	rl.RecordFailure("1.2.3.4", "jdoe")
	rl.RecordFailure("1.2.3.4", "jdoe")
	blocked, _ = rl.IsBlocked("1.2.3.4", "jdoe")
	assert.False(t, blocked)

	rl.RecordFailure("1.2.3.4", "jdoe")
	blocked, retryIn := rl.IsBlocked("1.2.3.4", "jdoe")
	assert.True(t, blocked)
	assert.Greater(t, retryIn, time.Duration(0))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute, time.Second, 10*time.Second)

	rl.RecordFailure("1.2.3.4", "jdoe")
	blocked, _ := rl.IsBlocked("1.2.3.4", "jdoe")
	assert.True(t, blocked)

	blocked, _ = rl.IsBlocked("5.6.7.8", "jdoe")
	assert.False(t, blocked)
	blocked, _ = rl.IsBlocked("1.2.3.4", "other")
	assert.False(t, blocked)
}

func TestRateLimiterSuccessClears(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute, time.Second, 10*time.Second)

	rl.RecordFailure("1.2.3.4", "jdoe")
	blocked, _ := rl.IsBlocked("1.2.3.4", "jdoe")
	assert.True(t, blocked)

	rl.RecordSuccess("1.2.3.4", "jdoe")
	blocked, _ = rl.IsBlocked("1.2.3.4", "jdoe")
	assert.False(t, blocked)
}

func TestRateLimiterBackoffGrows(t *testing.T) {
	rl := NewLoginRateLimiter(2, time.Minute, time.Second, 10*time.Second)

	assert.Equal(t, time.Second, rl.backoff(2))
	assert.Equal(t, 2*time.Second, rl.backoff(3))
	assert.Equal(t, 4*time.Second, rl.backoff(4))
	// Capped at the configured maximum.
	assert.Equal(t, 10*time.Second, rl.backoff(10))
}
