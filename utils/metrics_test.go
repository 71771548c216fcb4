package utils

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveBranch("booked")
	m.ObserveBranch("booked")
	m.ObserveCall("weather", nil)
	m.ObserveCall("weather", errors.New("timeout"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.replies.WithLabelValues("booked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outboundCalls.WithLabelValues("weather", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outboundCalls.WithLabelValues("weather", "error")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), `courtconnect_assistant_replies_total{branch="booked"} 2`))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveBranch("x")
		m.ObserveCall("y", nil)
	})
}
