package screen

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Intent outcomes recorded in metrics.
const (
	outcomeApplied = "applied"
	outcomeIgnored = "ignored"
)

// Prometheus metrics.
var (
	intentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoppinglist_intents_total",
			Help: "Total number of screen intents by type and outcome",
		},
		[]string{"intent", "outcome"},
	)

	itemsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoppinglist_items",
			Help: "Number of items currently on the shopping list",
		},
	)
)

func recordIntent(t IntentType, applied bool, items int) {
	outcome := outcomeIgnored
	if applied {
		outcome = outcomeApplied
	}
	intentsTotal.WithLabelValues(string(t), outcome).Inc()
	itemsGauge.Set(float64(items))
}
