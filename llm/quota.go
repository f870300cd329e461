package llm

import (
	"context"
	"sync"
	"time"
)

// QuotaLimiter enforces a per-minute pace and a daily budget for model
// calls. Counters live in memory and reset when the process restarts.
type QuotaLimiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	interval time.Duration
	lastCall time.Time

	now func() time.Time
}

// NewQuotaLimiter creates a limiter. Zero or negative values disable the
// corresponding limit.
func NewQuotaLimiter(requestsPerDay, requestsPerMinute int) *QuotaLimiter {
	if requestsPerDay < 0 {
		requestsPerDay = 0
	}
	var interval time.Duration
	if requestsPerMinute > 0 {
		interval = time.Minute / time.Duration(requestsPerMinute)
	}
	return &QuotaLimiter{
		dailyLimit: requestsPerDay,
		interval:   interval,
		now:        time.Now,
	}
}

// WaitAndReserve blocks until the pace allows another call and reserves it.
// It returns false with a nil error when today's budget is spent, and the
// context error when ctx ends while waiting.
func (l *QuotaLimiter) WaitAndReserve(ctx context.Context) (bool, error) {
	if l == nil {
		return true, nil
	}
	for {
		l.mu.Lock()

		now := l.now().UTC()
		today := now.Format("2006-01-02")
		if l.dayKey != today {
			l.dayKey = today
			l.usedToday = 0
		}

		if l.dailyLimit > 0 && l.usedToday >= l.dailyLimit {
			l.mu.Unlock()
			return false, nil
		}

		var delay time.Duration
		if l.interval > 0 && !l.lastCall.IsZero() {
			delay = l.lastCall.Add(l.interval).Sub(now)
		}

		if delay <= 0 {
			l.usedToday++
			l.lastCall = now
			l.mu.Unlock()
			return true, nil
		}

		l.mu.Unlock()
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// Remaining returns how many calls are left today, or -1 when unlimited
func (l *QuotaLimiter) Remaining() int {
	if l == nil || l.dailyLimit <= 0 {
		return -1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dayKey != l.now().UTC().Format("2006-01-02") {
		return l.dailyLimit
	}
	return l.dailyLimit - l.usedToday
}
