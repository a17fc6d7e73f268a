package controls

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itemsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "controls_items",
		Help: "The number of entries held by all collections sharing the name",
	}, []string{"collection"})

	itemsAdded = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "controls_added_total",
		Help: "The total number of items added with Add",
	}, []string{"collection"})

	itemsRemoved = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "controls_removed_total",
		Help: "The total number of entries removed with Remove or RemoveAt",
	}, []string{"collection"})
)
