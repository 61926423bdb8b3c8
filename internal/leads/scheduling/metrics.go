package scheduling

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var interactionsRecorded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kam_interactions_recorded_total",
		Help: "Interactions recorded, by interaction type",
	},
	[]string{"type"},
)
