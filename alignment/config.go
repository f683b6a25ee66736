package alignment

import (
	"fmt"
	"math"

	"github.com/kbukum/speakeralign/util"
)

// Defaults for Config.
const (
	DefaultMergeGapSeconds          = 0.75
	DefaultMaxMergedDurationSeconds = 30.0
	DefaultMinOverlapSeconds        = 0.0
	DefaultOverlapToleranceSeconds  = 0.05
	DefaultLowConfidenceThreshold   = 0.5
)

// Config tunes the alignment pipeline. Zero MergeGapSeconds and
// MaxMergedDurationSeconds select their defaults; the pointer fields are
// defaulted only when nil, so an explicit 0 is kept.
type Config struct {
	// MergeGapSeconds is the largest pause bridged when merging two
	// consecutive segments of the same speaker. Zero selects the default.
	MergeGapSeconds float64 `yaml:"merge_gap_seconds" mapstructure:"merge_gap_seconds"`
	// MaxMergedDurationSeconds caps the length of a merged utterance.
	MaxMergedDurationSeconds float64 `yaml:"max_merged_duration_seconds" mapstructure:"max_merged_duration_seconds"`
	// MinOverlapSeconds is the overlap a diarization segment must exceed to
	// count as a match. Zero accepts any positive overlap.
	MinOverlapSeconds float64 `yaml:"min_overlap_seconds" mapstructure:"min_overlap_seconds"`
	// OverlapToleranceSeconds is how far a transcription segment may reach
	// back into earlier ones before the input is rejected. 0 is strict.
	OverlapToleranceSeconds *float64 `yaml:"overlap_tolerance_seconds" mapstructure:"overlap_tolerance_seconds"`
	// LowConfidenceThreshold feeds Metrics.LowConfidenceRatio. 0 counts no
	// utterance as low confidence.
	LowConfidenceThreshold *float64 `yaml:"low_confidence_threshold" mapstructure:"low_confidence_threshold"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero scalar fields and nil pointer fields.
// MinOverlapSeconds defaults to zero, so it is left alone.
func (c *Config) ApplyDefaults() {
	if c.MergeGapSeconds == 0 {
		c.MergeGapSeconds = DefaultMergeGapSeconds
	}
	if c.MaxMergedDurationSeconds == 0 {
		c.MaxMergedDurationSeconds = DefaultMaxMergedDurationSeconds
	}
	if c.OverlapToleranceSeconds == nil {
		c.OverlapToleranceSeconds = util.Ptr(DefaultOverlapToleranceSeconds)
	}
	if c.LowConfidenceThreshold == nil {
		c.LowConfidenceThreshold = util.Ptr(DefaultLowConfidenceThreshold)
	}
}

// Validate checks that every field is finite and in range.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"merge_gap_seconds", c.MergeGapSeconds},
		{"max_merged_duration_seconds", c.MaxMergedDurationSeconds},
		{"min_overlap_seconds", c.MinOverlapSeconds},
		{"overlap_tolerance_seconds", util.Deref(c.OverlapToleranceSeconds)},
		{"low_confidence_threshold", util.Deref(c.LowConfidenceThreshold)},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("alignment.%s must be a finite non-negative number (got: %v)", f.name, f.value)
		}
	}
	if c.MaxMergedDurationSeconds == 0 {
		return fmt.Errorf("alignment.max_merged_duration_seconds must be positive")
	}
	if threshold := util.Deref(c.LowConfidenceThreshold); threshold > 1 {
		return fmt.Errorf("alignment.low_confidence_threshold must be at most 1 (got: %v)", threshold)
	}
	return nil
}
