package main

import (
	"fmt"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/attribution"
	"github.com/kbukum/speakeralign/config"
	"github.com/kbukum/speakeralign/diarization/pyannote"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/observability"
	"github.com/kbukum/speakeralign/server"
	"github.com/kbukum/speakeralign/transcription/whisper"
	"github.com/kbukum/speakeralign/version"
)

const serviceName = "speakeralign"

// AppConfig is the full configuration tree.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Alignment     alignment.Config     `yaml:"alignment" mapstructure:"alignment"`
	Attribution   attribution.Config   `yaml:"attribution" mapstructure:"attribution"`
	Providers     ProvidersConfig      `yaml:"providers" mapstructure:"providers"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// Provider selection strategies.
const (
	SelectorFirstAvailable = "first_available"
	SelectorRoundRobin     = "round_robin"
	SelectorPriority       = "priority"
)

// ProvidersConfig lists the backends to initialize, keyed by registered
// provider name. Each value is passed to that provider's factory.
//
//	providers:
//	  selector: priority
//	  priority: [whisper, pyannote]
//	  transcription:
//	    whisper: {url: "http://whisper:8387", model: large-v3}
//	  diarization:
//	    pyannote: {url: "http://pyannote:8388"}
type ProvidersConfig struct {
	Transcription map[string]map[string]any `yaml:"transcription" mapstructure:"transcription"`
	Diarization   map[string]map[string]any `yaml:"diarization" mapstructure:"diarization"`

	// Selector picks among available backends of one kind: first_available
	// (name order), round_robin or priority.
	Selector string `yaml:"selector" mapstructure:"selector"`
	// Priority orders backend names for the priority selector. Names of
	// both kinds may be mixed; each manager skips the ones it lacks.
	Priority []string `yaml:"priority" mapstructure:"priority"`

	// DefaultTranscription and DefaultDiarization pin one backend each,
	// bypassing the selector.
	DefaultTranscription string `yaml:"default_transcription" mapstructure:"default_transcription"`
	DefaultDiarization   string `yaml:"default_diarization" mapstructure:"default_diarization"`
}

// Validate checks the selector settings.
func (c *ProvidersConfig) Validate() error {
	switch c.Selector {
	case SelectorFirstAvailable, SelectorRoundRobin:
	case SelectorPriority:
		if len(c.Priority) == 0 {
			return fmt.Errorf("providers.priority must list backends for the priority selector")
		}
	default:
		return fmt.Errorf("providers.selector must be one of %s, %s, %s (got: %q)",
			SelectorFirstAvailable, SelectorRoundRobin, SelectorPriority, c.Selector)
	}
	return nil
}

// ApplyDefaults fills every section. With no providers configured the
// local whisper and pyannote sidecars are used.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Alignment.ApplyDefaults()
	c.Attribution.ApplyDefaults()
	c.Server.ApplyDefaults()

	if len(c.Providers.Transcription) == 0 {
		c.Providers.Transcription = map[string]map[string]any{whisper.ProviderName: {}}
	}
	if len(c.Providers.Diarization) == 0 {
		c.Providers.Diarization = map[string]map[string]any{pyannote.ProviderName: {}}
	}
	if c.Providers.Selector == "" {
		c.Providers.Selector = SelectorFirstAvailable
	}

	c.Observability.ServiceName = c.Name
	c.Observability.ServiceVersion = c.Version
	c.Observability.Environment = c.Environment
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Alignment.Validate(); err != nil {
		return err
	}
	if err := c.Attribution.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Providers.Validate(); err != nil {
		return err
	}
	if c.Observability.Enabled {
		if err := c.Observability.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig reads the layered configuration, applies flag overrides and
// initializes the global logger.
func loadConfig(opts *rootOptions) (*AppConfig, error) {
	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}

	cfg := &AppConfig{}
	if err := config.Load(serviceName, cfg, loaderOpts...); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(cfg.Logging)
	logger.RegisterDefaults("alignment", "attribution", "provider", "server", "component")
	return cfg, nil
}
