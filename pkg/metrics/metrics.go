// Package metrics registers the Prometheus instruments for the checkout and
// payment paths, served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "payments",
		Name:      "webhook_events_total",
		Help:      "Inbound payment webhook deliveries by outcome.",
	}, []string{"outcome"})

	StockConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "inventory",
		Name:      "stock_conflicts_total",
		Help:      "Checkouts rejected for insufficient stock.",
	})

	StockIntegrityFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "inventory",
		Name:      "integrity_failures_total",
		Help:      "Paid orders whose stock deduction failed; requires operator attention.",
	})
)
