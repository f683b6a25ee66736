// Package whisper implements transcription.Provider on top of a
// faster-whisper HTTP sidecar.
package whisper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kbukum/speakeralign/provider"
	"github.com/kbukum/speakeralign/transcription"
	"github.com/kbukum/speakeralign/util"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultURL     = "http://localhost:8387"
	defaultModel   = "base"
	defaultTimeout = 10 * time.Minute
)

// Config holds configuration for the Whisper provider.
type Config struct {
	URL         string        `json:"url" yaml:"url" mapstructure:"url"`
	Model       string        `json:"model" yaml:"model" mapstructure:"model"`
	Language    string        `json:"language,omitempty" yaml:"language" mapstructure:"language"`
	Device      string        `json:"device,omitempty" yaml:"device" mapstructure:"device"`
	ComputeType string        `json:"compute_type,omitempty" yaml:"compute_type" mapstructure:"compute_type"`
	VADFilter   bool          `json:"vad_filter,omitempty" yaml:"vad_filter" mapstructure:"vad_filter"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements transcription.Provider.
type Provider struct {
	cfg     Config
	sidecar *provider.Sidecar
}

// NewProvider creates a Whisper provider.
func NewProvider(cfg Config) *Provider {
	cfg.ApplyDefaults()
	return &Provider{
		cfg:     cfg,
		sidecar: provider.NewSidecar(ProviderName, cfg.URL, cfg.Timeout),
	}
}

// Factory builds Providers from an option map with the Config field names.
func Factory() provider.Factory[transcription.Provider] {
	return func(opts map[string]any) (transcription.Provider, error) {
		var (
			cfg Config
			err error
		)
		for key, dst := range map[string]*string{
			"url":          &cfg.URL,
			"model":        &cfg.Model,
			"language":     &cfg.Language,
			"device":       &cfg.Device,
			"compute_type": &cfg.ComputeType,
		} {
			if *dst, err = provider.StringOption(opts, key); err != nil {
				return nil, fmt.Errorf("whisper: %w", err)
			}
		}
		if cfg.VADFilter, err = provider.BoolOption(opts, "vad_filter"); err != nil {
			return nil, fmt.Errorf("whisper: %w", err)
		}
		if cfg.Timeout, err = provider.DurationOption(opts, "timeout"); err != nil {
			return nil, fmt.Errorf("whisper: %w", err)
		}
		return NewProvider(cfg), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the sidecar answers its health probe.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.sidecar.Ping(ctx)
}

// Transcribe uploads the audio file and returns the recognized segments.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	fields := map[string]string{"model": util.Coalesce(req.Model, p.cfg.Model)}
	if lang := util.Coalesce(req.Language, p.cfg.Language); lang != "" {
		fields["language"] = lang
	}
	if req.Prompt != "" {
		fields["initial_prompt"] = req.Prompt
	}
	if p.cfg.Device != "" {
		fields["device"] = p.cfg.Device
	}
	if p.cfg.ComputeType != "" {
		fields["compute_type"] = p.cfg.ComputeType
	}
	if p.cfg.VADFilter {
		fields["vad_filter"] = strconv.FormatBool(true)
	}

	var result whisperResponse
	if err := p.sidecar.UploadAudio(ctx, "/transcribe", req.AudioPath, fields, &result); err != nil {
		return nil, err
	}
	return result.toResponse(), nil
}

// --- sidecar wire types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r *whisperResponse) toResponse() *transcription.Response {
	segments := make([]transcription.Segment, len(r.Segments))
	for i, seg := range r.Segments {
		segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}

	duration := r.Duration
	if duration == 0 && len(r.Segments) > 0 {
		duration = r.Segments[len(r.Segments)-1].End
	}
	return &transcription.Response{
		Text:     r.Text,
		Segments: segments,
		Duration: duration,
		Language: r.Language,
	}
}
