// Package ratelimit caps the bot's daily spend on paid AI endpoints.
package ratelimit

import (
	"sync"
	"time"

	"github.com/Ivan1990Nik/telegram-it-bot/internal/logger"
)

// Limiter counts requests per service and enforces a shared daily total.
// The 24h window starts when the limiter is created and rolls over on the
// first request after it expires.
type Limiter struct {
	mu        sync.Mutex
	counts    map[string]int
	total     int
	maxTotal  int
	resetTime time.Time
}

// NewDaily creates a limiter allowing maxTotal requests per day across all
// services. maxTotal <= 0 disables the cap.
func NewDaily(maxTotal int) *Limiter {
	return &Limiter{
		counts:    make(map[string]int),
		maxTotal:  maxTotal,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// Allow records one request for the service and reports whether it fits
// the daily budget.
func (l *Limiter) Allow(service string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()

	if l.maxTotal > 0 && l.total >= l.maxTotal {
		logger.Warn("⚠️ дневной лимит AI-запросов исчерпан", "service", service, "total", l.total, "max", l.maxTotal)
		return false
	}

	l.counts[service]++
	l.total++
	return true
}

// Usage returns per-service request counts for the current window.
func (l *Limiter) Usage() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()

	out := make(map[string]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}

// checkReset rolls the window over. Caller holds the lock.
func (l *Limiter) checkReset() {
	if time.Now().After(l.resetTime) {
		l.counts = make(map[string]int)
		l.total = 0
		l.resetTime = time.Now().Add(24 * time.Hour)
	}
}
