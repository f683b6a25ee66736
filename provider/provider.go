package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Provider is the base interface every backend implements.
type Provider interface {
	// Name returns the provider's registered name.
	Name() string
	// IsAvailable reports whether the backend can take requests right now.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from a loosely typed option map, as
// read from a config file section.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// StringOption reads a string option. Missing keys return "".
func StringOption(cfg map[string]any, key string) (string, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %q must be a string, got %T", key, v)
	}
	return s, nil
}

// DurationOption reads a duration option given either as a time.Duration or
// as a string such as "90s". Missing keys return 0.
func DurationOption(cfg map[string]any, key string) (time.Duration, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("option %q: %w", key, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("option %q must be a duration, got %T", key, v)
	}
}

// BoolOption reads a boolean option given either as a bool or as a string
// such as "true", which is what environment overrides produce. Missing keys
// return false.
func BoolOption(cfg map[string]any, key string) (bool, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("option %q: %w", key, err)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("option %q must be a bool, got %T", key, v)
	}
}
