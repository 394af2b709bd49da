package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiCalls,
		aiCallsLatencyMs,
		aiTokensIn,
		aiTokensOut,
	)
}

var (
	aiCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_calls_total",
			Help: "Chat model calls per provider and success.",
		},
		[]string{"provider", "success"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "AI call latency distribution in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000, 60000},
		},
		[]string{"provider", "success"},
	)

	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of prompt (input) tokens per provider.",
		},
		[]string{"provider"},
	)

	aiTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Sum of completion (output) tokens per provider.",
		},
		[]string{"provider"},
	)
)

// ObserveChatCall records one chat model call.
func ObserveChatCall(provider string, elapsed time.Duration, err error) {
	ok := strconv.FormatBool(err == nil)
	aiCalls.WithLabelValues(provider, ok).Inc()
	aiCallsLatencyMs.WithLabelValues(provider, ok).Observe(float64(elapsed.Milliseconds()))
}

// AddChatTokens records token usage for one call. Either count may be an
// estimate when the provider does not report usage.
func AddChatTokens(provider string, in, out int) {
	if in > 0 {
		aiTokensIn.WithLabelValues(provider).Add(float64(in))
	}
	if out > 0 {
		aiTokensOut.WithLabelValues(provider).Add(float64(out))
	}
}
