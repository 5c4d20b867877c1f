package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("requests", nil, "total requests")
	r.IncrementCounter("requests", nil, "total requests")
	r.AddToCounter("requests", 3, nil, "total requests")

	snap := r.GetAll()
	require.Contains(t, snap.Counters, "requests")
	assert.Equal(t, float64(5), snap.Counters["requests"].Value)
}

func TestRegistry_CountersWithLabelsAreSeparate(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("responses", map[string]string{"status_code": "200"}, "")
	r.IncrementCounter("responses", map[string]string{"status_code": "500"}, "")
	r.IncrementCounter("responses", map[string]string{"status_code": "200"}, "")

	snap := r.GetAll()
	assert.Equal(t, float64(2), snap.Counters["responses|status_code=200"].Value)
	assert.Equal(t, float64(1), snap.Counters["responses|status_code=500"].Value)
}

func TestRegistry_LabelOrderDoesNotMatter(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("m", map[string]string{"a": "1", "b": "2"}, "")
	r.IncrementCounter("m", map[string]string{"b": "2", "a": "1"}, "")

	snap := r.GetAll()
	require.Len(t, snap.Counters, 1)
	assert.Equal(t, float64(2), snap.Counters["m|a=1|b=2"].Value)
}

func TestRegistry_Gauges(t *testing.T) {
	r := NewRegistry()

	r.SetGauge("connections", 4, nil, "active connections")
	r.SetGauge("connections", 2, nil, "active connections")

	snap := r.GetAll()
	assert.Equal(t, float64(2), snap.Gauges["connections"].Value)
}

func TestRegistry_Timers(t *testing.T) {
	r := NewRegistry()

	r.RecordTimer("latency", 10*time.Millisecond, nil, "")
	r.RecordTimer("latency", 30*time.Millisecond, nil, "")
	r.RecordTimer("latency", 20*time.Millisecond, nil, "")

	snap := r.GetAll()
	timer := snap.Timers["latency"]
	require.NotNil(t, timer)
	assert.Equal(t, int64(3), timer.Count)
	assert.InDelta(t, 10, timer.Min, 0.01)
	assert.InDelta(t, 30, timer.Max, 0.01)
	assert.InDelta(t, 20, timer.Average, 0.01)
	assert.InDelta(t, 60, timer.Sum, 0.01)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.IncrementCounter("concurrent", nil, "")
				r.RecordTimer("concurrent_timer", time.Millisecond, nil, "")
			}
		}()
	}
	wg.Wait()

	snap := r.GetAll()
	assert.Equal(t, float64(1000), snap.Counters["concurrent"].Value)
	assert.Equal(t, int64(1000), snap.Timers["concurrent_timer"].Count)
}

func TestSnapshot_Uptime(t *testing.T) {
	r := NewRegistry()
	snap := r.GetAll()
	assert.GreaterOrEqual(t, snap.UptimeMs, int64(0))
}
