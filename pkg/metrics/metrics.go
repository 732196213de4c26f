package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HistogramBuckets = []float64{
	// --- Fast responses (0 - 500ms) ---
	25, 50, 75, 100, 150, 200, 300, 400, 500,

	// --- Medium responses (500ms - 2s) ---
	750, 1000, 1250, 1500, 1750, 2000,

	// --- Slow responses (2s - 15s) ---
	2500, 3000, 4000, 5000, 7500, 10000, 15000,

	// --- Extended range (15s - 120s) ---
	20000, 30000, 45000, 60000, 75000, 90000, 120000,
}

// WebhookEvents counts processed billing webhook deliveries partitioned by
// event type and reconciliation outcome (applied, ignored, stale, missing,
// failed, rejected).
var WebhookEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: "billing",
		Name:      "webhook_events_total",
		Help:      "Billing webhook deliveries by event type and outcome.",
	},
	[]string{"type", "outcome"},
)

// BillingLookupFailures counts Billing Client lookups that failed during
// checkout-completed handling.
var BillingLookupFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Subsystem: "billing",
		Name:      "lookup_failures_total",
		Help:      "Failed subscription lookups against the billing provider.",
	},
)
