package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		translationCalls,
		translationLatencyMs,
		translationChars,
	)
}

var (
	translationCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_calls_total",
			Help: "Translation backend calls per backend and success.",
		},
		[]string{"backend", "success"},
	)

	translationLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "translation_latency_ms",
			Help:    "Translation call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 90000},
		},
		[]string{"backend", "success"},
	)

	translationChars = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_chars_total",
			Help: "Characters submitted for translation per backend.",
		},
		[]string{"backend"},
	)
)

// ObserveTranslation records one translation backend call.
func ObserveTranslation(backend string, elapsed time.Duration, chars int, err error) {
	ok := strconv.FormatBool(err == nil)
	translationCalls.WithLabelValues(backend, ok).Inc()
	translationLatencyMs.WithLabelValues(backend, ok).Observe(float64(elapsed.Milliseconds()))
	if chars > 0 {
		translationChars.WithLabelValues(backend).Add(float64(chars))
	}
}
