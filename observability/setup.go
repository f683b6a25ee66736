package observability

import (
	"context"
	stderrors "errors"
	"fmt"
)

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(ctx context.Context) error

// Setup installs the global tracer and meter providers. With Enabled false it
// returns a no-op shutdown and leaves the globals untouched.
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return noop, err
	}

	tp, err := InitTracer(ctx, cfg.tracerConfig())
	if err != nil {
		return noop, fmt.Errorf("tracer: %w", err)
	}
	mp, err := InitMeter(ctx, cfg.meterConfig())
	if err != nil {
		_ = tp.Shutdown(ctx)
		return noop, fmt.Errorf("meter: %w", err)
	}

	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
