// Package telemetry provides Prometheus metrics, OpenTelemetry tracing and correlation-id helpers.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Intake outcomes recorded on MessagesTotal.
const (
	OutcomeStored      = "stored"
	OutcomeRefused     = "refused"
	OutcomeUnsupported = "unsupported"
	OutcomeFailed      = "failed"
)

var (
	once sync.Once

	MessagesTotal       *prometheus.CounterVec
	StoreCorruptTotal   prometheus.Counter
	AuthFailuresTotal   prometheus.Counter
	TranslationDuration prometheus.Observer
	TranscriptLength    prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "channel_messages_total", Help: "Inbound messages by intake outcome"}, []string{"outcome"})
		StoreCorruptTotal = promauto.NewCounter(prometheus.CounterOpts{Name: "channel_store_corrupt_total", Help: "Transcript loads that fell back to an empty transcript"})
		AuthFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{Name: "channel_auth_failures_total", Help: "Requests rejected by the authorization guard"})
		TranslationDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "channel_translation_duration_seconds", Help: "Translation provider call duration seconds", Buckets: prometheus.DefBuckets})
		TranscriptLength = promauto.NewGauge(prometheus.GaugeOpts{Name: "channel_transcript_length", Help: "Messages in the persisted transcript after the last write"})
	})
}

// RecordOutcome counts one intake outcome.
func RecordOutcome(outcome string) {
	if MessagesTotal != nil {
		MessagesTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordStoreCorrupt counts a corrupt-transcript fallback.
func RecordStoreCorrupt() {
	if StoreCorruptTotal != nil {
		StoreCorruptTotal.Inc()
	}
}

// RecordAuthFailure counts a rejected credential.
func RecordAuthFailure() {
	if AuthFailuresTotal != nil {
		AuthFailuresTotal.Inc()
	}
}

// SetTranscriptLength records the persisted transcript size.
func SetTranscriptLength(n int) {
	if TranscriptLength != nil {
		TranscriptLength.Set(float64(n))
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a context carrying the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or an empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}
