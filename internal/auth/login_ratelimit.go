package auth

import (
	"sync"
	"time"
)

// LoginRateLimiter throttles repeated failed logins per client IP and login
// name, with exponential backoff once the failure threshold is hit.
type LoginRateLimiter struct {
	mu      sync.RWMutex
	records map[string]*loginRecord

	maxFailures int
	window      time.Duration
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

type loginRecord struct {
	failures  int
	lastFail  time.Time
	blockedAt time.Time
}

// NewLoginRateLimiter creates a limiter that blocks after maxFailures
// failed attempts within window.
func NewLoginRateLimiter(maxFailures int, window, baseBackoff, maxBackoff time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		records:     make(map[string]*loginRecord),
		maxFailures: maxFailures,
		window:      window,
		baseBackoff: baseBackoff,
		maxBackoff:  maxBackoff,
	}
	go rl.evictStale()
	return rl
}

// IsBlocked reports whether the IP+login pair is currently blocked and for
// how much longer.
func (rl *LoginRateLimiter) IsBlocked(ip, login string) (bool, time.Duration) {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	rec, ok := rl.records[ip+":"+login]
	if !ok || rec.blockedAt.IsZero() {
		return false, 0
	}

	until := rec.blockedAt.Add(rl.backoff(rec.failures))
	if time.Now().After(until) {
		return false, 0
	}
	return true, time.Until(until)
}

// RecordFailure notes a failed login attempt.
func (rl *LoginRateLimiter) RecordFailure(ip, login string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	k := ip + ":" + login
	rec, ok := rl.records[k]
	if !ok {
		rec = &loginRecord{}
		rl.records[k] = rec
	}

	now := time.Now()
	if !rec.lastFail.IsZero() && now.Sub(rec.lastFail) > rl.window {
		rec.failures = 0
		rec.blockedAt = time.Time{}
	}

	rec.failures++
	rec.lastFail = now
	if rec.failures >= rl.maxFailures {
		rec.blockedAt = now
	}
}

// RecordSuccess clears any failure history for the pair.
func (rl *LoginRateLimiter) RecordSuccess(ip, login string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.records, ip+":"+login)
}

func (rl *LoginRateLimiter) backoff(failures int) time.Duration {
	if failures <= rl.maxFailures {
		return rl.baseBackoff
	}
	d := rl.baseBackoff * time.Duration(1<<(failures-rl.maxFailures))
	if d > rl.maxBackoff {
		return rl.maxBackoff
	}
	return d
}

func (rl *LoginRateLimiter) evictStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for k, rec := range rl.records {
			if now.Sub(rec.lastFail) > 2*rl.window {
				delete(rl.records, k)
			}
		}
		rl.mu.Unlock()
	}
}
