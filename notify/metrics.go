package notify

import (
	"errors"

	ctlErrors "github.com/amp-labs/amp-controls/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// deliveries counts handler invocations that completed without failure.
	deliveries = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "notify_deliveries_total",
		Help: "The total number of events delivered to observers",
	}, []string{"observers"})

	// observerFailures counts handler invocations that returned an error or panicked.
	observerFailures = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "notify_observer_failures_total",
		Help: "The total number of observer invocations that failed and were absorbed",
	}, []string{"observers", "cause"})
)

func failureCause(err error) string {
	if errors.Is(err, ctlErrors.ErrPanicRecovery) {
		return "panic"
	}

	return "error"
}
