package port

import (
	"context"

	"insureport/internal/domain"
)

// InvokeInput carries one document (or chunk) plus the draft hint for a
// single backend call.
type InvokeInput struct {
	Document    []byte
	ContentType string
	Draft       *domain.DraftRecord
}

// ModelBackend abstracts one LLM vendor integration. Invoke performs exactly
// one outbound call and returns the model's raw text output; response parsing
// is the normalizer's job.
type ModelBackend interface {
	ID() domain.BackendID
	Invoke(ctx context.Context, input InvokeInput) (string, error)
}

// DocumentSlicer abstracts page counting and page-range extraction of a PDF.
type DocumentSlicer interface {
	PageCount(doc []byte) (int, error)
	// ExtractPages returns a standalone document containing pages from..to inclusive (1-based).
	ExtractPages(doc []byte, from, to int) ([]byte, error)
}

// ValidateInput is the record-validation request handed to the core.
type ValidateInput struct {
	Document []byte
	Draft    *domain.DraftRecord
	Backend  domain.BackendID // a specific backend or BackendAuto
	Parallel bool             // honored only above the size threshold
	AsOf     string           // "YYYY-MM-DD"; empty means caller's today
}

// RecordValidator is the core's entry point exposed to the HTTP layer.
type RecordValidator interface {
	Validate(ctx context.Context, input ValidateInput) (*domain.ValidatedRecord, *domain.ValidateMeta, error)
}
