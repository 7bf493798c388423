package domain

// BackendID identifies one of the configured LLM backends.
type BackendID string

const (
	// BackendModelA is the cheapest/fastest backend, tried first during escalation.
	BackendModelA BackendID = "modelA"
	// BackendModelB is the high-accuracy secondary backend.
	BackendModelB BackendID = "modelB"
	// BackendModelC is the last-resort tertiary backend.
	BackendModelC BackendID = "modelC"

	// BackendAuto selects the escalation chain instead of a single backend.
	BackendAuto BackendID = "auto"
)

// ValidBackendSelectors maps accepted backendSelector values from the API.
var ValidBackendSelectors = map[BackendID]bool{
	BackendModelA: true,
	BackendModelB: true,
	BackendModelC: true,
	BackendAuto:   true,
}

// PaymentStatus represents the payment lifecycle of an in-force contract.
type PaymentStatus string

const (
	PaymentActive    PaymentStatus = "active"
	PaymentCompleted PaymentStatus = "completed"
)

// TerminationStatus applies to contracts no longer in force.
type TerminationStatus string

const (
	TerminationLapsed    TerminationStatus = "lapsed"
	TerminationCancelled TerminationStatus = "cancelled"
)

// DiagnosisStatus classifies coverage sufficiency against the recommended amount.
type DiagnosisStatus string

const (
	DiagnosisUninsured    DiagnosisStatus = "uninsured"
	DiagnosisInsufficient DiagnosisStatus = "insufficient"
	DiagnosisCaution      DiagnosisStatus = "caution"
	DiagnosisSufficient   DiagnosisStatus = "sufficient"
)

// CautionRatio is the insured/recommended ratio below which coverage is insufficient.
const CautionRatio = 0.70

// ClassifyDiagnosis derives the coverage status from recommended and insured amounts.
// It is the single source of truth for the ratio thresholds.
func ClassifyDiagnosis(recommended, insured float64) DiagnosisStatus {
	switch {
	case insured == 0:
		return DiagnosisUninsured
	case insured >= recommended:
		return DiagnosisSufficient
	case insured >= CautionRatio*recommended:
		return DiagnosisCaution
	default:
		return DiagnosisInsufficient
	}
}

// Shortfall returns the coverage gap, never negative.
func Shortfall(recommended, insured float64) float64 {
	if insured >= recommended {
		return 0
	}
	return recommended - insured
}
