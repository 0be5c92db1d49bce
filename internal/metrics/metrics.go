package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the deck pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	decksGenerated   *prometheus.CounterVec
	outlineFallbacks prometheus.Counter
	imageFallbacks   prometheus.Counter
	slidesRendered   *prometheus.CounterVec
	buildDuration    prometheus.Histogram
}

// MustNew registers the collectors with reg and panics on a registration
// conflict. Tests pass a fresh prometheus.NewRegistry().
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		decksGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slideforge",
			Name:      "decks_generated_total",
			Help:      "Decks written to disk, by theme.",
		}, []string{"theme"}),
		outlineFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slideforge",
			Name:      "outline_fallbacks_total",
			Help:      "Outline requests answered with the built-in fallback outline.",
		}),
		imageFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slideforge",
			Name:      "image_fallbacks_total",
			Help:      "Image fetches answered with a generated placeholder.",
		}),
		slidesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slideforge",
			Name:      "slides_rendered_total",
			Help:      "Slides added to decks, by layout.",
		}, []string{"layout"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slideforge",
			Name:      "deck_build_duration_seconds",
			Help:      "Wall time of a full deck build including remote calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
	}
	reg.MustRegister(m.decksGenerated, m.outlineFallbacks, m.imageFallbacks, m.slidesRendered, m.buildDuration)
	return m
}

func (m *Metrics) DeckGenerated(theme string, took time.Duration) {
	if m == nil {
		return
	}
	m.decksGenerated.WithLabelValues(theme).Inc()
	m.buildDuration.Observe(took.Seconds())
}

func (m *Metrics) OutlineFallback() {
	if m == nil {
		return
	}
	m.outlineFallbacks.Inc()
}

func (m *Metrics) ImageFallback() {
	if m == nil {
		return
	}
	m.imageFallbacks.Inc()
}

func (m *Metrics) SlideRendered(layout string) {
	if m == nil {
		return
	}
	m.slidesRendered.WithLabelValues(layout).Inc()
}
