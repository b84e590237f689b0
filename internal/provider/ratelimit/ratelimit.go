package ratelimit

import (
	"sync"
	"time"
)

// MinInterval enforces a minimum wall-clock gap between consecutive requests
// across every caller sharing the same instance. It is a single-slot gate,
// not a token bucket: no bursts, callers queue FIFO on the mutex.
//
// Providers with strict quotas own one instance each, handed in at
// construction so the throttle state is explicit rather than global.
type MinInterval struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a limiter with the given minimum interval. A non-positive
// interval disables throttling.
func New(interval time.Duration) *MinInterval {
	return &MinInterval{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// NewWithClock creates a limiter with an injected clock, used by tests.
func NewWithClock(interval time.Duration, now func() time.Time, sleep func(time.Duration)) *MinInterval {
	return &MinInterval{interval: interval, now: now, sleep: sleep}
}

// Wait blocks until at least the configured interval has elapsed since the
// previous request from any caller, then stamps the current time.
func (m *MinInterval) Wait() {
	if m == nil || m.interval <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.last.IsZero() {
		if wait := m.interval - m.now().Sub(m.last); wait > 0 {
			m.sleep(wait)
		}
	}
	m.last = m.now()
}
