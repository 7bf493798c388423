package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insureport/internal/domain"
	"insureport/internal/validate"
)

func fullDraft() *domain.DraftRecord {
	return &domain.DraftRecord{
		Customer:  &domain.CustomerInfo{Name: "김철수"},
		Contracts: []domain.Contract{{SequenceNo: 1, Insurer: "삼성생명"}},
		TerminatedContracts: []domain.TerminatedContract{
			{Contract: domain.Contract{Insurer: "한화생명"}, Status: domain.TerminationLapsed},
		},
		DiagnosisItems:         []domain.DiagnosisItem{{CoverageName: "암진단"}},
		ProductCoverageDetails: []domain.ProductCoverage{{ProductName: "종신보험"}},
	}
}

func TestFilterDraftBySection(t *testing.T) {
	draft := fullDraft()

	contracts := validate.FilterDraftBySection(draft, validate.SectionContracts)
	require.NotNil(t, contracts)
	assert.Equal(t, draft.Customer, contracts.Customer)
	assert.Len(t, contracts.Contracts, 1)
	assert.Len(t, contracts.TerminatedContracts, 1)
	assert.Nil(t, contracts.DiagnosisItems)
	assert.Nil(t, contracts.ProductCoverageDetails)

	diagnosis := validate.FilterDraftBySection(draft, validate.SectionDiagnosis)
	assert.Len(t, diagnosis.DiagnosisItems, 1)
	assert.Nil(t, diagnosis.Contracts)

	coverage := validate.FilterDraftBySection(draft, validate.SectionCoverage)
	assert.Len(t, coverage.ProductCoverageDetails, 1)
	assert.Nil(t, coverage.DiagnosisItems)
}

func TestFilterDraftBySection_UnknownHintPassesThrough(t *testing.T) {
	draft := fullDraft()
	assert.Same(t, draft, validate.FilterDraftBySection(draft, "everything"))
	assert.Nil(t, validate.FilterDraftBySection(nil, validate.SectionContracts))
}
