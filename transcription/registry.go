package transcription

import "github.com/kbukum/speakeralign/provider"

// NewRegistry creates a provider registry for recognizers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// ManagerOption configures NewManager.
type ManagerOption func(*managerConfig)

type managerConfig struct {
	selector provider.Selector[Provider]
}

// WithSelector sets the selection strategy. The default picks the first
// available backend by name.
func WithSelector(s provider.Selector[Provider]) ManagerOption {
	return func(c *managerConfig) { c.selector = s }
}

// NewManager creates a provider manager for recognizers.
func NewManager(opts ...ManagerOption) *provider.Manager[Provider] {
	cfg := &managerConfig{selector: &provider.HealthCheckSelector[Provider]{}}
	for _, o := range opts {
		o(cfg)
	}
	return provider.NewManager(NewRegistry(), cfg.selector)
}
