package validate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"insureport/internal/domain"
	"insureport/internal/port"
)

// escalationStep is one backend in the priority chain. A zero fixedConfidence
// means the result is scored and checked against EscalationThreshold; a
// nonzero value is stamped on success without any further check.
type escalationStep struct {
	backend         port.ModelBackend
	fixedConfidence float64
}

// Escalator tries backends in priority order, returning the first result that
// clears the confidence bar. A single backend's failure never aborts the
// orchestration while fallback options remain.
type Escalator struct {
	steps []escalationStep
}

// NewEscalator builds the chain: cheap primary (scored), high-accuracy
// secondary and last-resort tertiary (fixed confidence). Nil entries are
// skipped.
func NewEscalator(primary, secondary, tertiary port.ModelBackend) *Escalator {
	return &Escalator{steps: []escalationStep{
		{backend: primary},
		{backend: secondary, fixedConfidence: SecondaryConfidence},
		{backend: tertiary, fixedConfidence: TertiaryConfidence},
	}}
}

func (e *Escalator) Validate(ctx context.Context, doc []byte, draft *domain.DraftRecord) (*domain.ValidatedRecord, error) {
	input := port.InvokeInput{Document: doc, ContentType: "application/pdf", Draft: draft}

	var attempted []string
	for _, step := range e.steps {
		if step.backend == nil {
			continue
		}
		id := step.backend.ID()

		text, err := step.backend.Invoke(ctx, input)
		if err != nil {
			log.Printf("validate.Escalator: %s failed: %v", id, err)
			attempted = append(attempted, string(id))
			continue
		}

		rec, err := Normalize(text, id)
		if err != nil {
			log.Printf("validate.Escalator: %s returned unparsable output: %v", id, err)
			attempted = append(attempted, string(id))
			continue
		}

		if step.fixedConfidence > 0 {
			rec.Confidence = step.fixedConfidence
			return rec, nil
		}

		conf := Score(rec)
		if conf > EscalationThreshold {
			rec.Confidence = conf
			return rec, nil
		}
		log.Printf("validate.Escalator: %s confidence %.2f below threshold %.2f, escalating", id, conf, EscalationThreshold)
		attempted = append(attempted, fmt.Sprintf("%s (low confidence %.2f)", id, conf))
	}

	return nil, fmt.Errorf("%w: attempted %s", domain.ErrAllBackendsFailed, strings.Join(attempted, ", "))
}
