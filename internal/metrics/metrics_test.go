package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordBackendCall_TracksHealth(t *testing.T) {
	m := New()

	m.RecordBackendCall(10*time.Millisecond, nil)
	m.RecordBackendCall(30*time.Millisecond, errors.New("connection refused"))

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["backend_requests"])
	assert.Equal(t, int64(1), stats["backend_failures"])
	assert.Equal(t, int64(20), stats["average_backend_latency_ms"])
	assert.Equal(t, "connection refused", stats["last_error"])
	assert.False(t, m.Healthy())

	m.RecordBackendCall(time.Millisecond, nil)
	assert.True(t, m.Healthy())
}

func TestRecordNormalized(t *testing.T) {
	m := New()
	m.RecordNormalized("array", 3)
	m.RecordNormalized("array", 2)
	m.IncrementNormalizeFailures()

	stats := m.GetStats()
	assert.Equal(t, int64(5), stats["items_served"])
	assert.Equal(t, int64(1), stats["normalize_failures"])
	assert.Equal(t, map[string]int64{"array": 2}, stats["shapes_seen"])
}
