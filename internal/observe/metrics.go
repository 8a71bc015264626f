// Package observe provides application-wide observability primitives for
// frontdesk: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all frontdesk metrics.
const meterName = "github.com/dayaar/frontdesk"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// ClassifyDuration tracks intent-classification latency per bot turn.
	ClassifyDuration metric.Float64Histogram

	// BackendDuration tracks round-trip latency of backend responder calls.
	BackendDuration metric.Float64Histogram

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram

	// --- Counters ---

	// Classifications counts resolved directives. Use with attribute:
	//   attribute.String("kind", ...)
	Classifications metric.Int64Counter

	// Selections counts option submissions. Use with attributes:
	//   attribute.String("kind", ...), attribute.String("source", "button"|"typed")
	Selections metric.Int64Counter

	// WSMessages counts WebSocket messages. Use with attribute:
	//   attribute.String("direction", "inbound"|"outbound")
	WSMessages metric.Int64Counter

	// --- Error counters ---

	// HistoryErrors counts transcript-store write failures. Use with attribute:
	//   attribute.String("store", ...)
	HistoryErrors metric.Int64Counter

	// BackendErrors counts backend responder failures.
	BackendErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions tracks the number of live chat sessions.
	ActiveSessions metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). The
// classifier itself runs in microseconds; the low buckets exist so a
// regression there is still visible next to backend round trips.
var latencyBuckets = []float64{
	0.0001, 0.001, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.ClassifyDuration, err = m.Float64Histogram("frontdesk.classify.duration",
		metric.WithDescription("Latency of message-intent classification."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.BackendDuration, err = m.Float64Histogram("frontdesk.backend.duration",
		metric.WithDescription("Round-trip latency of backend responder calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("frontdesk.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Classifications, err = m.Int64Counter("frontdesk.classifications",
		metric.WithDescription("Total resolved presentation directives by kind."),
	); err != nil {
		return nil, err
	}
	if met.Selections, err = m.Int64Counter("frontdesk.selections",
		metric.WithDescription("Total option submissions by directive kind and source."),
	); err != nil {
		return nil, err
	}
	if met.WSMessages, err = m.Int64Counter("frontdesk.ws.messages",
		metric.WithDescription("Total WebSocket messages by direction."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.HistoryErrors, err = m.Int64Counter("frontdesk.history.errors",
		metric.WithDescription("Total transcript-store write failures by store."),
	); err != nil {
		return nil, err
	}
	if met.BackendErrors, err = m.Int64Counter("frontdesk.backend.errors",
		metric.WithDescription("Total backend responder failures."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("frontdesk.active_sessions",
		metric.WithDescription("Number of live chat sessions."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordClassification records one resolved directive together with the time
// the classification took.
func (m *Metrics) RecordClassification(ctx context.Context, kind string, took time.Duration) {
	m.Classifications.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind)),
	)
	m.ClassifyDuration.Record(ctx, took.Seconds())
}

// RecordSelection records one option submission.
func (m *Metrics) RecordSelection(ctx context.Context, kind, source string) {
	m.Selections.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("source", source),
		),
	)
}

// RecordHistoryError records one transcript-store write failure.
func (m *Metrics) RecordHistoryError(ctx context.Context, store string) {
	m.HistoryErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("store", store)),
	)
}
