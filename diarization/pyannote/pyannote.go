// Package pyannote implements diarization.Provider on top of a
// pyannote.audio HTTP sidecar.
package pyannote

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/diarization"
	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/provider"
)

const (
	// ProviderName is the registered name for the Pyannote provider.
	ProviderName = "pyannote"

	defaultURL     = "http://localhost:8388"
	defaultTimeout = 300 * time.Second
)

// Config holds configuration for the Pyannote provider.
type Config struct {
	URL      string        `json:"url" yaml:"url" mapstructure:"url"`
	Pipeline string        `json:"pipeline,omitempty" yaml:"pipeline" mapstructure:"pipeline"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements diarization.Provider.
type Provider struct {
	cfg     Config
	sidecar *provider.Sidecar
}

// NewProvider creates a Pyannote provider.
func NewProvider(cfg Config) *Provider {
	cfg.ApplyDefaults()
	return &Provider{
		cfg:     cfg,
		sidecar: provider.NewSidecar(ProviderName, cfg.URL, cfg.Timeout),
	}
}

// Factory builds Providers from an option map with the Config field names.
func Factory() provider.Factory[diarization.Provider] {
	return func(opts map[string]any) (diarization.Provider, error) {
		var (
			cfg Config
			err error
		)
		if cfg.URL, err = provider.StringOption(opts, "url"); err != nil {
			return nil, fmt.Errorf("pyannote: %w", err)
		}
		if cfg.Pipeline, err = provider.StringOption(opts, "pipeline"); err != nil {
			return nil, fmt.Errorf("pyannote: %w", err)
		}
		if cfg.Timeout, err = provider.DurationOption(opts, "timeout"); err != nil {
			return nil, fmt.Errorf("pyannote: %w", err)
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

// Diarize uploads the audio file and returns the speaker turns.
func (p *Provider) Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	fields := make(map[string]string)
	if req.NumSpeakers > 0 {
		fields["num_speakers"] = strconv.Itoa(req.NumSpeakers)
	} else {
		if req.MinSpeakers > 0 {
			fields["min_speakers"] = strconv.Itoa(req.MinSpeakers)
		}
		if req.MaxSpeakers > 0 {
			fields["max_speakers"] = strconv.Itoa(req.MaxSpeakers)
		}
	}
	if req.Language != "" {
		fields["language"] = req.Language
	}
	if p.cfg.Pipeline != "" {
		fields["pipeline"] = p.cfg.Pipeline
	}

	var result pyannoteResponse
	if err := p.sidecar.UploadAudio(ctx, "/diarize", req.AudioPath, fields, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, errors.ExternalServiceError(ProviderName, fmt.Errorf("%s", result.Error))
	}
	return result.toResponse(), nil
}

// --- sidecar wire types ---

type pyannoteResponse struct {
	Segments    []pyannoteSegment `json:"segments"`
	NumSpeakers int               `json:"num_speakers"`
	Error       string            `json:"error,omitempty"`
}

type pyannoteSegment struct {
	SpeakerID alignment.SpeakerID `json:"speaker_id"`
	StartTime float64             `json:"start_time"`
	EndTime   float64             `json:"end_time"`
}

func (r *pyannoteResponse) toResponse() *diarization.Response {
	segments := make([]diarization.Segment, len(r.Segments))
	for i, seg := range r.Segments {
		segments[i] = diarization.Segment{
			Start:   seg.StartTime,
			End:     seg.EndTime,
			Speaker: seg.SpeakerID,
		}
	}
	return &diarization.Response{
		Segments:    segments,
		NumSpeakers: r.NumSpeakers,
	}
}
