package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wirelint_scan_seconds",
		Help:    "Wall time for a full directory scan.",
		Buckets: prometheus.DefBuckets,
	})

	FileParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wirelint_file_parse_seconds",
		Help:    "Time spent parsing a single source file.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wirelint_files_scanned_total",
		Help: "Total number of source files scanned.",
	})

	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wirelint_parse_failures_total",
		Help: "Total number of files that failed to parse.",
	})

	ResourcesDiscovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wirelint_resources_discovered_total",
		Help: "Total number of discovered resources by kind.",
	}, []string{"kind"})

	IssuesReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wirelint_issues_total",
		Help: "Total number of lint issues by rule id.",
	}, []string{"rule"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wirelint_cache_hits_total",
		Help: "Total number of discovery cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wirelint_cache_misses_total",
		Help: "Total number of discovery cache misses.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wirelint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
