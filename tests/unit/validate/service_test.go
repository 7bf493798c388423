package validate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"insureport/internal/config"
	"insureport/internal/domain"
	"insureport/internal/port"
	"insureport/internal/validate"
	"insureport/mocks"
)

func serviceConfig() *config.ValidateConfig {
	return &config.ValidateConfig{
		ParallelThresholdMB: 5,
		RetryMaxAttempts:    3,
		RetryBaseDelayMs:    1,
	}
}

func newTestService(backends map[domain.BackendID]port.ModelBackend, slicer port.DocumentSlicer, cfg *config.ValidateConfig) *validate.Service {
	return validate.NewService(backends, slicer, cfg).WithClock(func() time.Time {
		return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	})
}

func TestService_MissingInput(t *testing.T) {
	svc := newTestService(map[domain.BackendID]port.ModelBackend{}, nil, serviceConfig())

	_, _, err := svc.Validate(context.Background(), port.ValidateInput{Draft: testDraft()})
	assert.ErrorIs(t, err, domain.ErrMissingInput)

	_, _, err = svc.Validate(context.Background(), port.ValidateInput{Document: []byte("%PDF")})
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}

func TestService_SingleBackendPath(t *testing.T) {
	b := mocks.NewMockModelBackend(domain.BackendModelB)
	b.On("Invoke", mock.Anything, mock.Anything).Return(recordJSON(t, wellFormedRecord()), nil)

	svc := newTestService(map[domain.BackendID]port.ModelBackend{domain.BackendModelB: b}, nil, serviceConfig())

	rec, meta, err := svc.Validate(context.Background(), port.ValidateInput{
		Document: []byte("%PDF-1.7"),
		Draft:    testDraft(),
		Backend:  domain.BackendModelB,
	})

	require.NoError(t, err)
	assert.Equal(t, "single", meta.Mode)
	assert.Equal(t, domain.BackendModelB, meta.BackendUsed)
	assert.Equal(t, domain.BackendModelB, rec.SourceModel)
	assert.Greater(t, rec.Confidence, 0.0)
	b.AssertNumberOfCalls(t, "Invoke", 1)
}

func TestService_UnknownBackend(t *testing.T) {
	svc := newTestService(map[domain.BackendID]port.ModelBackend{}, nil, serviceConfig())

	_, _, err := svc.Validate(context.Background(), port.ValidateInput{
		Document: []byte("%PDF-1.7"),
		Draft:    testDraft(),
		Backend:  domain.BackendModelC,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidBackend)
}

func TestService_AutoUsesEscalation(t *testing.T) {
	a := mocks.NewMockModelBackend(domain.BackendModelA)
	a.On("Invoke", mock.Anything, mock.Anything).Return(recordJSON(t, wellFormedRecord()), nil)

	svc := newTestService(map[domain.BackendID]port.ModelBackend{domain.BackendModelA: a}, nil, serviceConfig())

	rec, meta, err := svc.Validate(context.Background(), port.ValidateInput{
		Document: []byte("%PDF-1.7"),
		Draft:    testDraft(),
		Backend:  domain.BackendAuto,
	})

	require.NoError(t, err)
	assert.Equal(t, "escalation", meta.Mode)
	assert.Equal(t, domain.BackendModelA, meta.BackendUsed)
	assert.Equal(t, domain.BackendModelA, rec.SourceModel)
}

func TestService_ParallelHintIgnoredBelowThreshold(t *testing.T) {
	a := mocks.NewMockModelBackend(domain.BackendModelA)
	a.On("Invoke", mock.Anything, mock.Anything).Return(recordJSON(t, wellFormedRecord()), nil)

	// No slicer wired; the parallel path would panic if it were taken.
	svc := newTestService(map[domain.BackendID]port.ModelBackend{domain.BackendModelA: a}, nil, serviceConfig())

	_, meta, err := svc.Validate(context.Background(), port.ValidateInput{
		Document: []byte("small document"),
		Draft:    testDraft(),
		Backend:  domain.BackendModelA,
		Parallel: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "single", meta.Mode)
}

func TestService_ParallelPathAboveThreshold(t *testing.T) {
	doc := []byte("%PDF-1.7 big report")

	slicer := new(mocks.MockDocumentSlicer)
	slicer.On("PageCount", doc).Return(8, nil)
	slicer.On("ExtractPages", doc, 1, 8).Return([]byte("whole"), nil)

	a := mocks.NewMockModelBackend(domain.BackendModelA)
	a.On("Invoke", mock.Anything, mock.Anything).Return(recordJSON(t, wellFormedRecord()), nil)

	// Threshold 0 MB means any non-empty document takes the parallel path.
	cfg := serviceConfig()
	cfg.ParallelThresholdMB = 0
	svc := newTestService(map[domain.BackendID]port.ModelBackend{domain.BackendModelA: a}, slicer, cfg)

	rec, meta, err := svc.Validate(context.Background(), port.ValidateInput{
		Document: doc,
		Draft:    testDraft(),
		Backend:  domain.BackendAuto,
		Parallel: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "parallel", meta.Mode)
	assert.Equal(t, 1, meta.ChunkCount)
	// Auto routes chunk invocations to the primary adapter.
	assert.Equal(t, domain.BackendModelA, meta.BackendUsed)
	assert.NotEmpty(t, rec.Contracts)
}

func TestService_AsOfDateDrivesPaymentStatus(t *testing.T) {
	rec := wellFormedRecord()
	rec.Contracts[0].PaymentTermLabel = "20년납"
	rec.Contracts[0].ContractDate = "2000-03-01"
	rec.Contracts[0].PaymentStatus = ""

	b := mocks.NewMockModelBackend(domain.BackendModelB)
	b.On("Invoke", mock.Anything, mock.Anything).Return(recordJSON(t, rec), nil)

	svc := newTestService(map[domain.BackendID]port.ModelBackend{domain.BackendModelB: b}, nil, serviceConfig())

	got, _, err := svc.Validate(context.Background(), port.ValidateInput{
		Document: []byte("%PDF-1.7"),
		Draft:    testDraft(),
		Backend:  domain.BackendModelB,
		AsOf:     "2026-09-01",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Contracts[0].PaymentStatus)
	assert.Equal(t, 0.0, got.Contracts[0].MonthlyPremium)
	assert.Equal(t, 100000.0, got.Contracts[0].PaidPremium)
	// Only the still-active second contract counts toward the total.
	assert.Equal(t, 50000.0, got.TotalPremium)
}
