package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrOperation = "operation"
	attrResult    = "result"
	attrCalendar  = "calendar"
)

// Result values for metric attributes.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics records observability metrics for the session lifecycle and the
// import pipeline. The zero value is a no-op recorder.
type Metrics struct {
	authSequencesTotal    metric.Int64Counter
	reauthorizationsTotal metric.Int64Counter
	fetchAttemptsTotal    metric.Int64Counter
	importsTotal          metric.Int64Counter
	eventsDroppedTotal    metric.Int64Counter
	importDuration        metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments registered on
// the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.authSequencesTotal, err = meter.Int64Counter(
		"auth_sequences_total",
		metric.WithDescription("Total number of authorize/exchange sequences"),
		metric.WithUnit("{sequence}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth_sequences_total counter: %w", err)
	}

	m.reauthorizationsTotal, err = meter.Int64Counter(
		"reauthorizations_total",
		metric.WithDescription("Total number of re-authorizations triggered by session expiry"),
		metric.WithUnit("{sequence}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reauthorizations_total counter: %w", err)
	}

	m.fetchAttemptsTotal, err = meter.Int64Counter(
		"fetch_attempts_total",
		metric.WithDescription("Total number of backend fetch attempts, retries included"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch_attempts_total counter: %w", err)
	}

	m.importsTotal, err = meter.Int64Counter(
		"imports_total",
		metric.WithDescription("Total number of completed event window imports"),
		metric.WithUnit("{import}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create imports_total counter: %w", err)
	}

	m.eventsDroppedTotal, err = meter.Int64Counter(
		"events_dropped_total",
		metric.WithDescription("Total number of raw events dropped as malformed"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create events_dropped_total counter: %w", err)
	}

	m.importDuration, err = meter.Float64Histogram(
		"import_duration_seconds",
		metric.WithDescription("Event window import duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create import_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordAuthSequence records a completed authorize/exchange sequence.
func (m *Metrics) RecordAuthSequence(ctx context.Context, success bool) {
	if m.authSequencesTotal == nil {
		return
	}
	m.authSequencesTotal.Add(ctx, 1, metric.WithAttributes(resultAttr(success)))
}

// RecordReauthorization records an expiry-triggered re-authorization.
func (m *Metrics) RecordReauthorization(ctx context.Context, success bool) {
	if m.reauthorizationsTotal == nil {
		return
	}
	m.reauthorizationsTotal.Add(ctx, 1, metric.WithAttributes(resultAttr(success)))
}

// RecordFetchAttempt records one backend fetch attempt for an operation.
func (m *Metrics) RecordFetchAttempt(ctx context.Context, operation string, success bool) {
	if m.fetchAttemptsTotal == nil {
		return
	}
	m.fetchAttemptsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOperation, operation),
		resultAttr(success),
	))
}

// RecordImport records a completed window import with its duration and the
// number of malformed events dropped along the way.
func (m *Metrics) RecordImport(ctx context.Context, calendarID string, dropped int, duration time.Duration, success bool) {
	if m.importsTotal == nil || m.importDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrCalendar, calendarID),
		resultAttr(success),
	)
	m.importsTotal.Add(ctx, 1, attrs)
	m.importDuration.Record(ctx, duration.Seconds(), attrs)
	if dropped > 0 && m.eventsDroppedTotal != nil {
		m.eventsDroppedTotal.Add(ctx, int64(dropped), metric.WithAttributes(
			attribute.String(attrCalendar, calendarID),
		))
	}
}

func resultAttr(success bool) attribute.KeyValue {
	if success {
		return attribute.String(attrResult, ResultSuccess)
	}
	return attribute.String(attrResult, ResultError)
}
