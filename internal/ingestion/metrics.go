package ingestion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// rowsPersisted tracks rows written to the catalog per run outcome.
	rowsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingestion_rows_persisted_total",
		Help: "Total number of pricing rows persisted",
	})

	// rowErrors tracks row-level ingestion failures.
	rowErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingestion_row_errors_total",
		Help: "Total number of pricing rows that failed to ingest",
	})

	// fileRowCount tracks the distribution of sheet sizes.
	fileRowCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ingestion_file_rows_count",
		Help:    "Number of data rows per pricing sheet",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 20000},
	})
)

func observeFile(fr FileResult) {
	rowsPersisted.Add(float64(fr.Persisted))
	rowErrors.Add(float64(fr.Errors))
	fileRowCount.Observe(float64(fr.TotalRows))
}
