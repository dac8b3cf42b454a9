package handlers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchDuration tracks the time taken to run vehicle searches.
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_search_duration_seconds",
		Help:    "Time taken to run a vehicle search",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
	})

	// searchErrors tracks failed vehicle searches.
	searchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_search_errors_total",
		Help: "Total number of failed vehicle searches",
	})

	// quoteDuration tracks the time taken to price a cart quote.
	quoteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_quote_duration_seconds",
		Help:    "Time taken to price a cart quote by price level",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2},
	}, []string{"level"})

	// quoteErrors tracks failed cart quotes.
	quoteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_quote_errors_total",
		Help: "Total number of failed cart quotes by reason",
	}, []string{"reason"})

	// quoteLineCount tracks the distribution of quote sizes.
	quoteLineCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_quote_lines_count",
		Help:    "Number of line items in cart quote requests",
		Buckets: []float64{1, 2, 5, 10, 20, 50},
	})

	// ordersSubmitted tracks submitted purchase orders.
	ordersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_orders_submitted_total",
		Help: "Total number of purchase orders submitted",
	})
)

func observeSearch(d time.Duration, err error) {
	searchDuration.Observe(d.Seconds())
	if err != nil {
		searchErrors.Inc()
	}
}
