// # internal/shared/observability/metrics.go
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "asnmeta_scan_seconds",
		Help:    "Time spent on one full scan of the matched files.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asnmeta_files_scanned_total",
		Help: "Total number of files scanned across all scans.",
	})

	FileErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asnmeta_file_errors_total",
		Help: "Total number of files skipped because they could not be read.",
	})

	FieldsExtracted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "asnmeta_fields_extracted",
		Help: "Number of annotated fields in the latest result mapping.",
	})

	ModulesExtracted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "asnmeta_modules_extracted",
		Help: "Number of modules in the latest result mapping.",
	})

	WarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asnmeta_warnings_total",
		Help: "Total number of soft scan warnings by kind.",
	}, []string{"kind"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asnmeta_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
