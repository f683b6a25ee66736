// Package observability wires OpenTelemetry tracing and metrics for the
// attribution service.
//
// Both exporters speak OTLP over HTTP. When Config.Enabled is false, Setup
// installs nothing and the global no-op providers stay in place, so spans and
// instruments can be used unconditionally.
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewAlignmentMetrics(observability.Meter(observability.InstrumentationName))
//	ctx, op := observability.StartOperation(ctx, "attribution.process", metrics)
//	defer op.End(ctx, err)
package observability
