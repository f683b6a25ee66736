package observability

import (
	"context"
	"sync"

	"github.com/kbukum/speakeralign/component"
)

const componentName = "telemetry"

var _ component.Component = (*Component)(nil)

// Component runs Setup on start and flushes the exporters on stop.
type Component struct {
	cfg Config

	mu       sync.Mutex
	shutdown ShutdownFunc
}

// NewComponent returns a lifecycle wrapper for cfg.
func NewComponent(cfg Config) *Component {
	return &Component{cfg: cfg}
}

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start installs the global tracer and meter providers.
func (c *Component) Start(ctx context.Context) error {
	shutdown, err := Setup(ctx, c.cfg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.shutdown = shutdown
	c.mu.Unlock()
	return nil
}

// Stop flushes pending spans and metrics.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	shutdown := c.shutdown
	c.shutdown = nil
	c.mu.Unlock()
	if shutdown == nil {
		return nil
	}
	return shutdown(ctx)
}

// Health reports whether the exporters are running. Disabled telemetry is
// healthy.
func (c *Component) Health(ctx context.Context) component.Health {
	if !c.cfg.Enabled {
		return component.Health{Name: componentName, Status: component.StatusHealthy, Message: "disabled"}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdown == nil {
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "exporters not started"}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}
