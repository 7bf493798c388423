package validate

import (
	"context"
	"fmt"
	"time"

	"insureport/internal/backend"
	"insureport/internal/config"
	"insureport/internal/domain"
	"insureport/internal/port"
)

// Service is the validation core's entry point. It routes a request to the
// single-backend path, the escalation chain, or the chunked parallel path.
type Service struct {
	backends          map[domain.BackendID]port.ModelBackend
	escalator         *Escalator
	slicer            port.DocumentSlicer
	parallelThreshold int64 // bytes
	retryMaxAttempts  int
	retryBaseDelay    time.Duration
	now               func() time.Time
}

// NewService wires the validation core from the configured backends.
func NewService(backends map[domain.BackendID]port.ModelBackend, slicer port.DocumentSlicer, cfg *config.ValidateConfig) *Service {
	return &Service{
		backends: backends,
		escalator: NewEscalator(
			backends[domain.BackendModelA],
			backends[domain.BackendModelB],
			backends[domain.BackendModelC],
		),
		slicer:            slicer,
		parallelThreshold: cfg.ParallelThresholdMB * 1024 * 1024,
		retryMaxAttempts:  cfg.RetryMaxAttempts,
		retryBaseDelay:    time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		now:               time.Now,
	}
}

// WithClock replaces the wall clock used when the caller omits asOfDate.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Validate(ctx context.Context, in port.ValidateInput) (*domain.ValidatedRecord, *domain.ValidateMeta, error) {
	if len(in.Document) == 0 || in.Draft == nil {
		return nil, nil, domain.ErrMissingInput
	}

	asOf := s.resolveAsOf(in.AsOf)
	start := s.now()

	// The parallel hint is honored only above the size threshold; smaller
	// documents always take the single-document path.
	if in.Parallel && int64(len(in.Document)) > s.parallelThreshold {
		return s.validateParallel(ctx, in, asOf, start)
	}

	if in.Backend == domain.BackendAuto {
		rec, err := s.escalator.Validate(ctx, in.Document, in.Draft)
		if err != nil {
			return nil, nil, err
		}
		domain.Finalize(rec, asOf)
		meta := &domain.ValidateMeta{
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			BackendUsed:      rec.SourceModel,
			Mode:             "escalation",
		}
		return rec, meta, nil
	}

	b, ok := s.backends[in.Backend]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidBackend, in.Backend)
	}

	input := port.InvokeInput{Document: in.Document, ContentType: "application/pdf", Draft: in.Draft}
	text, err := backend.InvokeWithRetry(ctx, b, input, s.retryMaxAttempts, s.retryBaseDelay)
	if err != nil {
		return nil, nil, err
	}
	rec, err := Normalize(text, b.ID())
	if err != nil {
		return nil, nil, err
	}
	rec.Confidence = Score(rec)
	domain.Finalize(rec, asOf)

	meta := &domain.ValidateMeta{
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		BackendUsed:      b.ID(),
		Mode:             "single",
	}
	return rec, meta, nil
}

func (s *Service) validateParallel(ctx context.Context, in port.ValidateInput, asOf time.Time, start time.Time) (*domain.ValidatedRecord, *domain.ValidateMeta, error) {
	// Chunks go straight to one adapter, not the escalation chain.
	id := in.Backend
	if id == domain.BackendAuto {
		id = domain.BackendModelA
	}
	b, ok := s.backends[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidBackend, id)
	}

	proc := NewChunkProcessor(b, s.slicer)
	rec, meta, err := proc.Run(ctx, in.Document, in.Draft)
	if err != nil {
		return nil, meta, err
	}
	domain.Finalize(rec, asOf)
	meta.ProcessingTimeMs = time.Since(start).Milliseconds()
	return rec, meta, nil
}

// resolveAsOf parses the injected as-of date; an absent or malformed value
// falls back to the service clock.
func (s *Service) resolveAsOf(asOf string) time.Time {
	if asOf != "" {
		if t, err := time.Parse("2006-01-02", asOf); err == nil {
			return t
		}
	}
	return s.now()
}
