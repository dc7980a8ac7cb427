package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	BackendRequests    int64
	BackendFailures    int64
	NormalizeFailures  int64
	ItemsServed        int64
	BookmarkOperations int64
	ShapesSeen         map[string]int64

	// Timings
	LastBackendLatency    time.Duration
	AverageBackendLatency time.Duration
	TotalBackendLatency   time.Duration

	// Status
	StartedAt     time.Time
	LastSuccessAt time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{
		IsHealthy:  true,
		StartedAt:  time.Now(),
		ShapesSeen: make(map[string]int64),
	}
}

// RecordBackendCall tracks latency and health of one backend round trip
func (m *Metrics) RecordBackendCall(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BackendRequests++
	m.LastBackendLatency = duration
	m.TotalBackendLatency += duration
	m.AverageBackendLatency = m.TotalBackendLatency / time.Duration(m.BackendRequests)

	if err != nil {
		m.BackendFailures++
		m.LastError = err.Error()
		m.LastErrorTime = time.Now()
		m.IsHealthy = false
		return
	}

	m.LastSuccessAt = time.Now()
	m.IsHealthy = true
}

// RecordNormalized counts a successfully normalized payload
func (m *Metrics) RecordNormalized(shape string, items int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShapesSeen[shape]++
	m.ItemsServed += int64(items)
}

func (m *Metrics) IncrementNormalizeFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NormalizeFailures++
}

func (m *Metrics) IncrementBookmarkOperations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BookmarkOperations++
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shapes := make(map[string]int64, len(m.ShapesSeen))
	for k, v := range m.ShapesSeen {
		shapes[k] = v
	}

	return map[string]interface{}{
		"backend_requests":           m.BackendRequests,
		"backend_failures":           m.BackendFailures,
		"normalize_failures":         m.NormalizeFailures,
		"items_served":               m.ItemsServed,
		"bookmark_operations":        m.BookmarkOperations,
		"shapes_seen":                shapes,
		"last_backend_latency_ms":    m.LastBackendLatency.Milliseconds(),
		"average_backend_latency_ms": m.AverageBackendLatency.Milliseconds(),
		"uptime_seconds":             int64(time.Since(m.StartedAt).Seconds()),
		"last_success_time":          formatTime(m.LastSuccessAt),
		"last_error_time":            formatTime(m.LastErrorTime),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
