package validate

import (
	"sort"

	"insureport/internal/domain"
)

// contractKey identifies a contract across chunks.
type contractKey struct {
	sequenceNo int
	date       string
	insurer    string
}

// Merge combines per-chunk outcomes into one record. Failed chunks contribute
// nothing. Customer and agent blocks come from the first chunk that has them;
// lists are concatenated in chunk order; contracts are de-duplicated with a
// preference for entries that captured a nonzero premium; aggregate totals
// are recomputed from the final contract list, never trusted from any chunk.
func Merge(outcomes []ChunkOutcome) *domain.ValidatedRecord {
	merged := &domain.ValidatedRecord{
		Contracts:              []domain.Contract{},
		TerminatedContracts:    []domain.TerminatedContract{},
		DiagnosisItems:         []domain.DiagnosisItem{},
		ProductCoverageDetails: []domain.ProductCoverage{},
		Corrections:            []string{},
	}

	seen := map[contractKey]int{}
	seenDiagnosis := map[string]bool{}
	var confidences []float64

	for _, o := range outcomes {
		if o.Err != nil || o.Record == nil {
			continue
		}
		rec := o.Record

		if merged.SourceModel == "" {
			merged.SourceModel = rec.SourceModel
		}
		if merged.Customer == nil && rec.Customer != nil {
			merged.Customer = rec.Customer
		}
		if merged.Agent == nil && rec.Agent != nil {
			merged.Agent = rec.Agent
		}

		for _, c := range rec.Contracts {
			key := contractKey{sequenceNo: c.SequenceNo, date: c.ContractDate, insurer: c.Insurer}
			if idx, dup := seen[key]; dup {
				// Prefer the entry that captured the premium figure.
				if merged.Contracts[idx].MonthlyPremium == 0 && c.MonthlyPremium != 0 {
					merged.Contracts[idx] = c
				}
				continue
			}
			seen[key] = len(merged.Contracts)
			merged.Contracts = append(merged.Contracts, c)
		}

		merged.TerminatedContracts = append(merged.TerminatedContracts, rec.TerminatedContracts...)

		for _, d := range rec.DiagnosisItems {
			if seenDiagnosis[d.CoverageName] {
				continue
			}
			seenDiagnosis[d.CoverageName] = true
			merged.DiagnosisItems = append(merged.DiagnosisItems, d)
		}

		merged.ProductCoverageDetails = append(merged.ProductCoverageDetails, rec.ProductCoverageDetails...)
		merged.Corrections = append(merged.Corrections, rec.Corrections...)

		if rec.Confidence > 0 {
			confidences = append(confidences, rec.Confidence)
		}
	}

	// Missing sequence numbers sort as 0.
	sort.SliceStable(merged.Contracts, func(i, j int) bool {
		return merged.Contracts[i].SequenceNo < merged.Contracts[j].SequenceNo
	})

	total := domain.ActivePremiumTotal(merged.Contracts)
	merged.TotalPremium = total
	merged.ActiveMonthlyPremium = total

	if len(confidences) > 0 {
		var sum float64
		for _, c := range confidences {
			sum += c
		}
		merged.Confidence = sum / float64(len(confidences))
	}

	return merged
}
