package validate

import "insureport/internal/domain"

// Section hints for semantically-typed chunks.
const (
	SectionContracts = "contracts"
	SectionDiagnosis = "diagnosis"
	SectionCoverage  = "coverage"
)

// FilterDraftBySection narrows a draft hint to one logical section. The
// size-driven chunking path passes the full draft instead, since page-range
// boundaries don't align with logical sections; this filter only applies to
// section-typed chunks.
func FilterDraftBySection(draft *domain.DraftRecord, sectionHint string) *domain.DraftRecord {
	if draft == nil {
		return nil
	}
	switch sectionHint {
	case SectionContracts:
		return &domain.DraftRecord{
			Customer:            draft.Customer,
			Contracts:           draft.Contracts,
			TerminatedContracts: draft.TerminatedContracts,
		}
	case SectionDiagnosis:
		return &domain.DraftRecord{
			Customer:       draft.Customer,
			DiagnosisItems: draft.DiagnosisItems,
		}
	case SectionCoverage:
		return &domain.DraftRecord{
			Customer:               draft.Customer,
			ProductCoverageDetails: draft.ProductCoverageDetails,
		}
	default:
		return draft
	}
}
