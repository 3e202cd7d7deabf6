package wealthwise

import (
	"sync"
	"time"
)

// LoginLimiter rate-limits failed admin logins per IP address.
// A nil *LoginLimiter allows everything.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLoginLimiter creates a LoginLimiter that allows max failures per window.
// It returns nil when max is not positive.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	if max <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	l := &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *LoginLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := l.now().Add(-l.window)
			l.mu.Lock()
			for ip, hits := range l.attempts {
				if kept := recent(hits, cutoff); len(kept) == 0 {
					delete(l.attempts, ip)
				} else {
					l.attempts[ip] = kept
				}
			}
			l.mu.Unlock()
		}
	}
}

func recent(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow checks the limit and records the attempt.
func (l *LoginLimiter) Allow(ip string) bool {
	if !l.Check(ip) {
		return false
	}
	l.Record(ip)
	return true
}

// Check returns true if the IP has not exceeded the rate limit.
// It does not record an attempt; call Record on failure.
func (l *LoginLimiter) Check(ip string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := recent(l.attempts[ip], l.now().Add(-l.window))
	l.attempts[ip] = kept
	return len(kept) < l.max
}

// Record registers a failed login attempt for the given IP.
func (l *LoginLimiter) Record(ip string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.attempts[ip] = append(l.attempts[ip], l.now())
	l.mu.Unlock()
}

// Reset forgets the failures of ip, after a successful login.
func (l *LoginLimiter) Reset(ip string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	delete(l.attempts, ip)
	l.mu.Unlock()
}

// Stop ends the cleanup goroutine.
func (l *LoginLimiter) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() { close(l.stop) })
}
