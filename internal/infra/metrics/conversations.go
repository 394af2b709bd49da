package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		conversationsLive,
		conversationsEvicted,
	)
}

var (
	conversationsLive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "conversations_live",
			Help: "Number of conversations currently held by the store.",
		},
	)

	conversationsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_evicted_total",
			Help: "Conversations removed by idle eviction.",
		},
	)
)

func SetConversationsLive(n int) { conversationsLive.Set(float64(n)) }

func AddConversationsEvicted(n int) {
	if n > 0 {
		conversationsEvicted.Add(float64(n))
	}
}
