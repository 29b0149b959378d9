package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveDBQuery("select", nil, time.Millisecond)
		m.SetDBPoolStats(1, 1, 0, 0)
		m.ObserveSlots(5, 3)
		m.IncBookingConflict()
		m.IncBookingCreated("confirmed")
		m.AddBookingsExpired(2)
		m.IncTxRetry()
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.ObserveSlots(5, 3)
	m.IncBookingConflict()
	m.IncBookingConflict()
	m.ObserveDBQuery("insert", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.slotsGenerated.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.slotsGenerated.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingConflicts))
}
