// Package metrics keeps operator-visible counters for the news and gift
// pipelines, exposed as JSON on /metrics and /health.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	NewsRuns           int64
	NewsPublished      int64
	DuplicatesFiltered int64
	RewriteFailures    int64
	DeliveryFailures   int64
	SourcesFailed      int64
	GiftsPublished     int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementNewsRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NewsRuns++
}

func (m *Metrics) IncrementNewsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NewsPublished++
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) IncrementRewriteFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RewriteFailures++
}

func (m *Metrics) IncrementDeliveryFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeliveryFailures++
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) IncrementGiftsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GiftsPublished++
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
}

// SetHealthy clears the degraded state. Called on a confirmed publish, not
// on every run, so a failing cycle stays visible on /health.
func (m *Metrics) SetHealthy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"news_runs":           m.NewsRuns,
		"news_published":      m.NewsPublished,
		"duplicates_filtered": m.DuplicatesFiltered,
		"rewrite_failures":    m.RewriteFailures,
		"delivery_failures":   m.DeliveryFailures,
		"sources_failed":      m.SourcesFailed,
		"gifts_published":     m.GiftsPublished,
		"last_run_time":       m.LastRunTime.Format(time.RFC3339),
		"last_error_time":     m.LastErrorTime.Format(time.RFC3339),
		"last_error":          m.LastError,
		"is_healthy":          m.IsHealthy,
	}
}
