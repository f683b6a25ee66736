package attribution

import (
	"fmt"
	"time"

	"github.com/kbukum/speakeralign/resilience"
)

const (
	defaultExtraSpeakers     = 2
	defaultMaxConcurrentJobs = 2
	defaultJobTimeout        = 30 * time.Minute
)

// Config holds attribution service settings.
type Config struct {
	// ExtraSpeakers is added to the roster size to form the diarizer's
	// max_speakers hint, leaving room for undeclared participants.
	ExtraSpeakers int `yaml:"extra_speakers" mapstructure:"extra_speakers"`
	// PromptWithRoster passes roster names to the recognizer as a
	// vocabulary prompt.
	PromptWithRoster bool `yaml:"prompt_with_roster" mapstructure:"prompt_with_roster"`

	MaxConcurrentJobs int           `yaml:"max_concurrent_jobs" mapstructure:"max_concurrent_jobs"`
	MaxJobWait        time.Duration `yaml:"max_job_wait" mapstructure:"max_job_wait"`
	JobTimeout        time.Duration `yaml:"job_timeout" mapstructure:"job_timeout"`

	Retry   resilience.RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Breaker resilience.BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ExtraSpeakers == 0 {
		c.ExtraSpeakers = defaultExtraSpeakers
	}
	if c.MaxConcurrentJobs == 0 {
		c.MaxConcurrentJobs = defaultMaxConcurrentJobs
	}
	if c.JobTimeout == 0 {
		c.JobTimeout = defaultJobTimeout
	}
	d := resilience.DefaultRetryConfig()
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = d.MaxAttempts
	}
	if c.Retry.InitialBackoff == 0 {
		c.Retry.InitialBackoff = d.InitialBackoff
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = d.MaxBackoff
	}
	if c.Retry.BackoffFactor == 0 {
		c.Retry.BackoffFactor = d.BackoffFactor
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.ExtraSpeakers < 0 {
		return fmt.Errorf("attribution.extra_speakers must be non-negative (got: %d)", c.ExtraSpeakers)
	}
	if c.MaxConcurrentJobs < 0 {
		return fmt.Errorf("attribution.max_concurrent_jobs must be non-negative (got: %d)", c.MaxConcurrentJobs)
	}
	if c.JobTimeout < 0 || c.MaxJobWait < 0 {
		return fmt.Errorf("attribution timeouts must be non-negative")
	}
	if c.Retry.Jitter < 0 || c.Retry.Jitter > 1 {
		return fmt.Errorf("attribution.retry.jitter must be between 0 and 1 (got: %v)", c.Retry.Jitter)
	}
	return nil
}
