package middleware

import "time"

// SetClock replaces the limiter clock in tests.
func (l *IPRateLimiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}
