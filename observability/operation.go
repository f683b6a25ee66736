package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/speakeralign/errors"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Operation tracks one traced and metered alignment run.
type Operation struct {
	Name    string
	Span    trace.Span
	Metrics *AlignmentMetrics
	Result  RunResult

	start time.Time
}

// StartOperation starts a span named name and bumps the in-progress gauge.
// metrics may be nil.
func StartOperation(ctx context.Context, name string, metrics *AlignmentMetrics, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(attrs...))
	if metrics != nil {
		metrics.RecordStart(ctx)
	}
	return ctx, &Operation{Name: name, Span: span, Metrics: metrics, start: time.Now()}
}

// End records err on the span, ends it, and records the run metrics.
func (op *Operation) End(ctx context.Context, err error) {
	d := op.Duration()
	status := StatusOK
	if err != nil {
		status = StatusError
		op.Span.RecordError(err)
		op.Span.SetStatus(codes.Error, err.Error())
		if appErr, ok := errors.AsAppError(err); ok {
			op.Span.SetAttributes(attribute.String(AttrErrorCode, string(appErr.Code)))
		}
	} else {
		op.Span.SetAttributes(
			attribute.Int(AttrUtterances, op.Result.Utterances),
			attribute.Int(AttrWarnings, op.Result.Warnings),
		)
	}
	op.Span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, d.Milliseconds()),
	)
	op.Span.End()

	if op.Metrics != nil {
		op.Metrics.RecordEnd(ctx, op.Name, status, d, op.Result)
	}
}

// Duration returns the time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.start)
}
