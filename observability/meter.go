package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/speakeralign/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter installs a periodic OTLP meter provider as the global provider.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// AlignmentMetrics holds the instruments recorded per alignment run and per
// provider call.
type AlignmentMetrics struct {
	runs         metric.Int64Counter
	runDuration  metric.Float64Histogram
	active       metric.Int64UpDownCounter
	utterances   metric.Int64Counter
	warnings     metric.Int64Counter
	unmatched    metric.Int64Counter
	providerCall metric.Float64Histogram
}

// NewAlignmentMetrics creates the instruments on meter.
func NewAlignmentMetrics(meter metric.Meter) (*AlignmentMetrics, error) {
	var (
		m   AlignmentMetrics
		err error
	)
	if m.runs, err = meter.Int64Counter("alignment.runs",
		metric.WithDescription("Alignment runs by operation and status"),
	); err != nil {
		return nil, fmt.Errorf("creating alignment.runs counter: %w", err)
	}
	if m.runDuration, err = meter.Float64Histogram("alignment.duration",
		metric.WithDescription("Wall time of alignment runs"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating alignment.duration histogram: %w", err)
	}
	if m.active, err = meter.Int64UpDownCounter("alignment.active",
		metric.WithDescription("Alignment runs in progress"),
	); err != nil {
		return nil, fmt.Errorf("creating alignment.active counter: %w", err)
	}
	if m.utterances, err = meter.Int64Counter("alignment.utterances",
		metric.WithDescription("Utterances emitted"),
	); err != nil {
		return nil, fmt.Errorf("creating alignment.utterances counter: %w", err)
	}
	if m.warnings, err = meter.Int64Counter("alignment.warnings",
		metric.WithDescription("Warnings attached to transcripts"),
	); err != nil {
		return nil, fmt.Errorf("creating alignment.warnings counter: %w", err)
	}
	if m.unmatched, err = meter.Int64Counter("alignment.unmatched_segments",
		metric.WithDescription("Transcription segments with no overlapping speaker turn"),
	); err != nil {
		return nil, fmt.Errorf("creating alignment.unmatched_segments counter: %w", err)
	}
	if m.providerCall, err = meter.Float64Histogram("provider.call.duration",
		metric.WithDescription("Duration of recognizer and diarizer calls"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating provider.call.duration histogram: %w", err)
	}
	return &m, nil
}

// RunResult is the outcome of one alignment run.
type RunResult struct {
	Utterances int
	Warnings   int
	Unmatched  int
}

// RecordStart increments the in-progress gauge.
func (m *AlignmentMetrics) RecordStart(ctx context.Context) {
	m.active.Add(ctx, 1)
}

// RecordEnd decrements the in-progress gauge and records the run.
func (m *AlignmentMetrics) RecordEnd(ctx context.Context, operation, status string, d time.Duration, res RunResult) {
	m.active.Add(ctx, -1)
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, d.Seconds(), attrs)
	if status != StatusOK {
		return
	}
	op := metric.WithAttributes(attribute.String("operation", operation))
	m.utterances.Add(ctx, int64(res.Utterances), op)
	m.warnings.Add(ctx, int64(res.Warnings), op)
	m.unmatched.Add(ctx, int64(res.Unmatched), op)
}

// RecordProviderCall records one recognizer or diarizer call.
func (m *AlignmentMetrics) RecordProviderCall(ctx context.Context, provider, status string, d time.Duration) {
	m.providerCall.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}
