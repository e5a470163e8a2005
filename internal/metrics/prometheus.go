package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus instruments for the capture and
// transcription pipeline.
type Metrics struct {
	// Capture
	ChunksReceived prometheus.Counter
	ChunksDropped  prometheus.Counter
	QueueDepth     prometheus.Gauge

	// Segmenter
	Flushes               prometheus.Counter
	WindowSamples         prometheus.Histogram
	TranscriptionFailures prometheus.Counter
	TranscriptionEmpty    prometheus.Counter
	TranscriptionDuration prometheus.Histogram
	EntriesPublished      prometheus.Counter

	// Export
	ExportedEntries prometheus.Counter
	ExportFailures  prometheus.Counter
}

// NewMetrics creates all instruments and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ChunksReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "motives_audio_chunks_received_total",
			Help: "Total number of audio chunks delivered by the capture device",
		}),
		ChunksDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "motives_audio_chunks_dropped_total",
			Help: "Total number of audio chunks discarded because the queue was full",
		}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "motives_audio_queue_depth",
			Help: "Current number of audio chunks waiting for the segmenter",
		}),
		Flushes: f.NewCounter(prometheus.CounterOpts{
			Name: "motives_segmenter_flushes_total",
			Help: "Total number of windows submitted for transcription",
		}),
		WindowSamples: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "motives_segmenter_window_samples",
			Help:    "Number of samples in each submitted window",
			Buckets: prometheus.LinearBuckets(16000, 16000, 10),
		}),
		TranscriptionFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "motives_transcription_failures_total",
			Help: "Total number of windows whose transcription failed or timed out",
		}),
		TranscriptionEmpty: f.NewCounter(prometheus.CounterOpts{
			Name: "motives_transcription_empty_total",
			Help: "Total number of windows that produced no text",
		}),
		TranscriptionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "motives_transcription_duration_seconds",
			Help:    "Latency of transcription calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		EntriesPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "motives_transcript_entries_published_total",
			Help: "Total number of transcript entries appended by the segmenter",
		}),
		ExportedEntries: f.NewCounter(prometheus.CounterOpts{
			Name: "motives_export_entries_total",
			Help: "Total number of transcript entries exported",
		}),
		ExportFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "motives_export_failures_total",
			Help: "Total number of transcript entries that failed to export",
		}),
	}
}

// NewNopMetrics returns instruments bound to a private registry, for tests
// and for runs without a metrics endpoint.
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
