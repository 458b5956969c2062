package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_library_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_library_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_library_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_library_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_library_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_library_indexer_runs_total",
			Help: "Total number of reconcile passes",
		},
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_library_indexer_last_run_timestamp",
			Help: "Timestamp of the last reconcile pass",
		},
	)

	IndexerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_library_indexer_last_run_duration_seconds",
			Help: "Duration of the last reconcile pass in seconds",
		},
	)

	IndexerVideosIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_library_indexer_videos_indexed_total",
			Help: "Total number of video files registered by the indexer",
		},
	)

	IndexerFoldersIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_library_indexer_folders_indexed_total",
			Help: "Total number of folders registered by the indexer",
		},
	)

	IndexerEntriesPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_library_indexer_entries_pruned_total",
			Help: "Total number of folder and video rows pruned",
		},
	)

	IndexerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_library_indexer_errors_total",
			Help: "Total number of indexer errors",
		},
	)

	IndexerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_library_indexer_running",
			Help: "Whether a reconcile pass is currently running (1 = running, 0 = idle)",
		},
	)
)

// Duration probe metrics
var (
	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_library_probe_duration_seconds",
			Help:    "ffprobe invocation duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ProbeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_library_probe_failures_total",
			Help: "Total number of failed duration probes",
		},
	)
)

// Like counter metrics
var (
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_library_likes_total",
			Help: "Total number of like requests by outcome",
		},
		[]string{"outcome"}, // "accepted", "daily_cap", "client_cap", "unknown_video"
	)
)
