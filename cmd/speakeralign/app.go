package main

import (
	"fmt"
	"sort"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/attribution"
	"github.com/kbukum/speakeralign/diarization"
	"github.com/kbukum/speakeralign/diarization/pyannote"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/observability"
	"github.com/kbukum/speakeralign/provider"
	"github.com/kbukum/speakeralign/transcription"
	"github.com/kbukum/speakeralign/transcription/whisper"
)

// newService wires the configured recognizers and diarizers into an
// attribution service.
func newService(cfg *AppConfig) (*attribution.Service, error) {
	recognizers := transcription.NewManager(
		transcription.WithSelector(newSelector[transcription.Provider](cfg.Providers)))
	recognizers.Register(whisper.ProviderName, whisper.Factory())
	if err := initialize(recognizers, cfg.Providers.Transcription, cfg.Providers.DefaultTranscription); err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}

	diarizers := diarization.NewManager(
		diarization.WithSelector(newSelector[diarization.Provider](cfg.Providers)))
	diarizers.Register(pyannote.ProviderName, pyannote.Factory())
	if err := initialize(diarizers, cfg.Providers.Diarization, cfg.Providers.DefaultDiarization); err != nil {
		return nil, fmt.Errorf("diarization: %w", err)
	}

	opts := []attribution.Option{
		attribution.WithRecognizers(recognizers),
		attribution.WithDiarizers(diarizers),
		attribution.WithLogger(logger.Get("attribution")),
	}
	if cfg.Observability.Enabled {
		metrics, err := observability.NewAlignmentMetrics(observability.Meter(observability.InstrumentationName))
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		opts = append(opts, attribution.WithMetrics(metrics))
	}

	aligner := alignment.New(cfg.Alignment, alignment.WithLogger(logger.Get("alignment")))
	return attribution.NewService(aligner, cfg.Attribution, opts...), nil
}

// newSelector builds the configured selection strategy. cfg has been
// validated, so anything else means first available.
func newSelector[T provider.Provider](cfg ProvidersConfig) provider.Selector[T] {
	switch cfg.Selector {
	case SelectorRoundRobin:
		return &provider.RoundRobinSelector[T]{}
	case SelectorPriority:
		return &provider.PrioritySelector[T]{Priority: cfg.Priority}
	default:
		return &provider.HealthCheckSelector[T]{}
	}
}

// initialize creates every configured backend in name order and pins
// defaultName when set.
func initialize[T provider.Provider](m *provider.Manager[T], backends map[string]map[string]any, defaultName string) error {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		opts := backends[name]
		if opts == nil {
			opts = map[string]any{}
		}
		if err := m.Initialize(name, opts); err != nil {
			return err
		}
	}
	if defaultName != "" {
		return m.SetDefault(defaultName)
	}
	return nil
}
