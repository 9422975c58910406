package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.CacheResult("orders", true)
	m.CacheResult("orders", false)
	m.CacheResult("orders", false)
	m.OrderStatusUpdated("confirmed")
	m.JobRun("low_stock", errors.New("boom"))
	m.ObserveHTTP("GET", "/api/orders", 200, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("orders", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("orders", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusUpdates.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("low_stock", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/orders", "200")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RealtimeEvent("postgres", "INSERT")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `kirana_realtime_events_total{source="postgres",type="INSERT"} 1`))
}
