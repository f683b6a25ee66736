package attribution

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/component"
	"github.com/kbukum/speakeralign/diarization"
	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/observability"
	"github.com/kbukum/speakeralign/provider"
	"github.com/kbukum/speakeralign/resilience"
	"github.com/kbukum/speakeralign/transcription"
)

// Service aligns segments and runs attribution jobs.
type Service struct {
	cfg         Config
	aligner     *alignment.Aligner
	recognizers *provider.Manager[transcription.Provider]
	diarizers   *provider.Manager[diarization.Provider]
	metrics     *observability.AlignmentMetrics
	jobs        *resilience.Bulkhead
	log         *logger.Logger

	mu       sync.Mutex
	breakers map[string]*resilience.CircuitBreaker
}

// Option configures a Service.
type Option func(*Service)

// WithRecognizers sets the speech recognizer manager. Process needs it.
func WithRecognizers(m *provider.Manager[transcription.Provider]) Option {
	return func(s *Service) { s.recognizers = m }
}

// WithDiarizers sets the diarizer manager. Process needs it.
func WithDiarizers(m *provider.Manager[diarization.Provider]) Option {
	return func(s *Service) { s.diarizers = m }
}

// WithMetrics records run and provider metrics on m.
func WithMetrics(m *observability.AlignmentMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service around aligner.
func NewService(aligner *alignment.Aligner, cfg Config, opts ...Option) *Service {
	cfg.ApplyDefaults()
	s := &Service{
		cfg:      cfg,
		aligner:  aligner,
		breakers: make(map[string]*resilience.CircuitBreaker),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get("attribution")
	}
	s.jobs = resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "attribution jobs",
		MaxConcurrent: cfg.MaxConcurrentJobs,
		MaxWait:       cfg.MaxJobWait,
	})
	return s
}

// Attribute aligns already recognized and diarized segments.
func (s *Service) Attribute(ctx context.Context, in alignment.Input) (*alignment.Transcript, error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanAlign, s.metrics,
		attribute.Int(observability.AttrSegments, len(in.Transcription)),
		attribute.Int(observability.AttrTurns, len(in.Diarization)),
	)

	t, err := s.aligner.Align(in)
	if err == nil {
		op.Result = observability.RunResult{
			Utterances: len(t.Utterances),
			Warnings:   len(t.Warnings),
			Unmatched:  t.Metrics.UnmatchedSegments,
		}
	}
	op.End(ctx, err)

	log := s.log.WithContext(ctx)
	if err != nil {
		log.Warn("alignment rejected input", logger.ErrorFields("align", err))
		return nil, err
	}
	log.Info("alignment complete", logger.Fields(
		logger.FieldSegments, len(in.Transcription),
		logger.FieldUtterances, len(t.Utterances),
		logger.FieldSpeakers, len(t.SpeakerTable),
		logger.FieldWarnings, len(t.Warnings),
		logger.FieldDuration, op.Duration().Milliseconds(),
	))
	return t, nil
}

// Process runs the recognizer and diarizer on job.AudioPath and aligns the
// results. When every job slot is busy it fails with a retryable
// SERVICE_UNAVAILABLE error.
func (s *Service) Process(ctx context.Context, job Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if s.recognizers == nil || s.diarizers == nil {
		return nil, errors.ServiceUnavailable("attribution providers")
	}
	ctx = logger.ContextWithJobID(ctx, job.ID)

	var result *Result
	err := s.jobs.Execute(ctx, func() error {
		var err error
		result, err = s.process(ctx, job)
		return err
	})
	if err != nil {
		s.log.WithContext(ctx).Error("job failed", logger.ErrorFields("process", err))
		return nil, err
	}
	return result, nil
}

func (s *Service) process(ctx context.Context, job Job) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	ctx, op := observability.StartOperation(ctx, observability.SpanProcess, s.metrics,
		attribute.String(observability.AttrJobID, job.ID),
	)
	var err error
	defer func() { op.End(ctx, err) }()

	recognizer, err := pick(ctx, s.recognizers)
	if err != nil {
		return nil, err
	}
	diarizer, err := pick(ctx, s.diarizers)
	if err != nil {
		return nil, err
	}

	log := s.log.WithContext(ctx).WithFields(logger.Fields(
		"recognizer", recognizer.Name(),
		"diarizer", diarizer.Name(),
	))
	log.Info("job started", logger.Fields("audio_path", job.AudioPath))

	var (
		speech *transcription.Response
		turns  *diarization.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var callErr error
		speech, callErr = callProvider(gctx, s, recognizer.Name(), observability.SpanTranscribe,
			func(ctx context.Context) (*transcription.Response, error) {
				return recognizer.Transcribe(ctx, transcriptionRequest(job, s.cfg.PromptWithRoster))
			})
		return callErr
	})
	g.Go(func() error {
		var callErr error
		turns, callErr = callProvider(gctx, s, diarizer.Name(), observability.SpanDiarize,
			func(ctx context.Context) (*diarization.Response, error) {
				return diarizer.Diarize(ctx, diarizationRequest(job, s.cfg.ExtraSpeakers))
			})
		return callErr
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	in := alignment.Input{
		Transcription: toTranscriptionSegments(speech),
		Diarization:   turns.Turns(),
		Roster:        job.Roster,
	}
	transcript, err := s.Attribute(ctx, in)
	if err != nil {
		return nil, err
	}
	op.Result = observability.RunResult{
		Utterances: len(transcript.Utterances),
		Warnings:   len(transcript.Warnings),
		Unmatched:  transcript.Metrics.UnmatchedSegments,
	}
	log.Info("job completed", logger.Fields(
		logger.FieldUtterances, len(transcript.Utterances),
		logger.FieldWarnings, len(transcript.Warnings),
	))

	return &Result{
		JobID:         job.ID,
		Transcript:    transcript,
		Language:      speech.Language,
		AudioDuration: speech.Duration,
		Recognizer:    recognizer.Name(),
		Diarizer:      diarizer.Name(),
	}, nil
}

// Health reports provider availability keyed "kind/name".
func (s *Service) Health(ctx context.Context) map[string]bool {
	out := make(map[string]bool)
	if s.recognizers != nil {
		for name, ok := range s.recognizers.Health(ctx) {
			out["transcription/"+name] = ok
		}
	}
	if s.diarizers != nil {
		for name, ok := range s.diarizers.Health(ctx) {
			out["diarization/"+name] = ok
		}
	}
	return out
}

// HealthReport converts provider availability into component health. An
// unavailable provider is degraded while another provider of its kind is up
// and unhealthy when it was the last one.
func (s *Service) HealthReport(ctx context.Context) []component.Health {
	health := s.Health(ctx)
	up := make(map[string]int)
	for key, ok := range health {
		if ok {
			kind, _, _ := strings.Cut(key, "/")
			up[kind]++
		}
	}

	keys := make([]string, 0, len(health))
	for key := range health {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]component.Health, 0, len(keys))
	for _, key := range keys {
		h := component.Health{Name: key, Status: component.StatusHealthy}
		if !health[key] {
			kind, _, _ := strings.Cut(key, "/")
			h.Status = component.StatusUnhealthy
			if up[kind] > 0 {
				h.Status = component.StatusDegraded
			}
			h.Message = "provider unavailable"
		}
		out = append(out, h)
	}
	return out
}

// Aligner returns the aligner used by the service.
func (s *Service) Aligner() *alignment.Aligner { return s.aligner }

// pick asks m for a provider: its pinned default when one is set, otherwise
// the selector's choice.
func pick[T provider.Provider](ctx context.Context, m *provider.Manager[T]) (T, error) {
	p, err := m.Get(ctx)
	if err != nil {
		return p, errors.ServiceUnavailable("provider").WithCause(err)
	}
	return p, nil
}

func (s *Service) breaker(name string) *resilience.CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb, ok := s.breakers[name]
	if !ok {
		cfg := s.cfg.Breaker
		cfg.Name = name
		cfg.OnStateChange = func(name string, from, to resilience.State) {
			s.log.Warn("circuit state changed", logger.Fields(
				logger.FieldProvider, name, "from", from.String(), "to", to.String(),
			))
		}
		cb = resilience.NewCircuitBreaker(cfg)
		s.breakers[name] = cb
	}
	return cb
}

// classify turns plain provider errors into AppErrors: TIMEOUT once ctx is
// done, EXTERNAL_SERVICE_ERROR otherwise.
func classify(ctx context.Context, name, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	if ctx.Err() != nil {
		return errors.Timeout(op).WithCause(err)
	}
	return errors.ExternalServiceError(name, err)
}

// callProvider runs fn under a span, the provider's circuit breaker and the
// retry policy. Plain errors are classified first.
func callProvider[T any](ctx context.Context, s *Service, name, span string, fn func(context.Context) (T, error)) (T, error) {
	ctx, sp := observability.StartSpan(ctx, span)
	sp.SetAttributes(attribute.String(observability.AttrProvider, name))
	defer sp.End()

	retry := s.cfg.Retry
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		s.log.WithContext(ctx).Warn("provider call failed, retrying", logger.Fields(
			logger.FieldProvider, name,
			"attempt", attempt,
			"backoff", backoff.String(),
			logger.FieldError, err.Error(),
		))
	}

	start := time.Now()
	cb := s.breaker(name)
	out, err := resilience.Retry(ctx, retry, func() (T, error) {
		return resilience.Call(cb, func() (T, error) {
			res, err := fn(ctx)
			return res, classify(ctx, name, span, err)
		})
	})

	err = classify(ctx, name, span, err)

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError
		sp.RecordError(err)
	}
	if s.metrics != nil {
		s.metrics.RecordProviderCall(ctx, name, status, time.Since(start))
	}
	if err != nil {
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
