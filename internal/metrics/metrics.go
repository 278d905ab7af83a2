package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Queue actor
	JobsEnqueuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minutes_jobs_enqueued_total",
			Help: "Total number of jobs enqueued",
		},
	)

	JobsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minutes_jobs_completed_total",
			Help: "Total number of jobs resolved by the actor",
		},
		[]string{"outcome"}, // done, retried, failed
	)

	JobsWaiting = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "minutes_jobs_waiting",
			Help: "Current number of waiting jobs in the queue",
		},
	)

	JobDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minutes_job_duration_seconds",
			Help:    "Job processing duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~17m
		},
		[]string{"action"},
	)

	// Transcription stage
	ChunkRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minutes_transcription_chunk_retries_total",
			Help: "Total number of transcription chunk retries",
		},
	)

	ChunksDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "minutes_transcription_chunks_dropped_total",
			Help: "Total number of chunks dropped after exhausting retries",
		},
	)

	// Summarization stage
	QualityChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minutes_quality_checks_total",
			Help: "Total number of summary quality checks",
		},
		[]string{"passed"}, // "true" or "false"
	)
)
