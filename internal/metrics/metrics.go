// Package metrics exposes Prometheus instrumentation for the diagnosis
// pipeline. Register is called once at startup; the recording helpers are
// safe no-ops before that.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	diagnosesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagvoice_diagnoses_total",
			Help: "Total diagnoses served by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	keywordMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagvoice_keyword_matches_total",
			Help: "Total keyword matches by category",
		},
		[]string{"category"},
	)

	transcriptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagvoice_transcriptions_total",
			Help: "Total transcription attempts by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	providerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diagvoice_provider_latency_seconds",
			Help:    "Provider call latency by provider and operation",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"provider", "operation"},
	)

	registerOnce sync.Once
	registered   bool
)

// Register registers all collectors with the default registry.
// Must be called once at startup.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(diagnosesTotal, keywordMatchesTotal, transcriptionsTotal, providerLatency)
		registered = true
	})
}

// RecordDiagnosis counts one served diagnosis.
func RecordDiagnosis(source, outcome string) {
	if !registered {
		return
	}
	diagnosesTotal.WithLabelValues(source, outcome).Inc()
}

// RecordKeywordMatch counts one matched category occurrence.
func RecordKeywordMatch(category string) {
	if !registered {
		return
	}
	keywordMatchesTotal.WithLabelValues(category).Inc()
}

// RecordTranscription counts one transcription attempt.
func RecordTranscription(provider, outcome string) {
	if !registered {
		return
	}
	transcriptionsTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveProviderLatency records how long a provider call took.
func ObserveProviderLatency(provider, operation string, elapsed time.Duration) {
	if !registered {
		return
	}
	providerLatency.WithLabelValues(provider, operation).Observe(elapsed.Seconds())
}
