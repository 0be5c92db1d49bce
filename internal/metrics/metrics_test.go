package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersRecord(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.DeckGenerated("Modern Blue", 2*time.Second)
	m.OutlineFallback()
	m.ImageFallback()
	m.ImageFallback()
	m.SlideRendered("title")
	m.SlideRendered("content")
	m.SlideRendered("content")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decksGenerated.WithLabelValues("Modern Blue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outlineFallbacks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.imageFallbacks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.slidesRendered.WithLabelValues("content")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.DeckGenerated("x", time.Second)
		m.OutlineFallback()
		m.ImageFallback()
		m.SlideRendered("blank")
	})
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNew(reg)
	assert.Panics(t, func() { MustNew(reg) })
}
