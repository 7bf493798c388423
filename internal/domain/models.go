package domain

// CustomerInfo holds the policyholder details extracted from the report header.
type CustomerInfo struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// AgentInfo holds the issuing agent/planner block. Downstream consumers never
// branch on its absence; the normalizer guarantees it is populated.
type AgentInfo struct {
	Name   string `json:"name"`
	Agency string `json:"agency"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

// Contract is one in-force insurance contract row.
type Contract struct {
	ID               string        `json:"id,omitempty"`
	SequenceNo       int           `json:"sequenceNo"`
	Insurer          string        `json:"insurer"`
	Product          string        `json:"product"`
	ContractDate     string        `json:"contractDate"`
	PaymentCycle     string        `json:"paymentCycle,omitempty"`
	PaymentTermLabel string        `json:"paymentTermLabel,omitempty"`
	MaturityLabel    string        `json:"maturityLabel,omitempty"`
	MonthlyPremium   float64       `json:"monthlyPremium"`
	// PaidPremium retains the original premium for contracts whose payment
	// term has completed; MonthlyPremium is reported as 0 for those.
	PaidPremium   float64       `json:"paidPremium,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// TerminatedContract is a contract that lapsed or was cancelled.
type TerminatedContract struct {
	Contract
	Status       TerminationStatus `json:"status"`
	CancelReason string            `json:"cancelReason,omitempty"`
}

// DiagnosisItem is one row of the coverage-sufficiency diagnosis table.
type DiagnosisItem struct {
	CoverageName      string          `json:"coverageName"`
	RecommendedAmount float64         `json:"recommendedAmount"`
	InsuredAmount     float64         `json:"insuredAmount"`
	ShortfallAmount   float64         `json:"shortfallAmount"`
	Status            DiagnosisStatus `json:"status"`
}

// CoverageDetail is one coverage line within a product's detail table.
type CoverageDetail struct {
	SequenceNo           int     `json:"sequenceNo"`
	Category             string  `json:"category"`
	CompanyCoverageName  string  `json:"companyCoverageName"`
	StandardCoverageName string  `json:"standardCoverageName,omitempty"`
	InsuredAmount        float64 `json:"insuredAmount"`
}

// ProductCoverage groups coverage details per product.
type ProductCoverage struct {
	ProductName string           `json:"productName"`
	Insurer     string           `json:"insurer,omitempty"`
	Coverages   []CoverageDetail `json:"coverages"`
}

// DraftRecord is the heuristic parser's first-pass guess. The validation core
// only reads it as a hint; it is never mutated.
type DraftRecord struct {
	Customer               *CustomerInfo        `json:"customer,omitempty"`
	Contracts              []Contract           `json:"contracts,omitempty"`
	TerminatedContracts    []TerminatedContract `json:"terminatedContracts,omitempty"`
	DiagnosisItems         []DiagnosisItem      `json:"diagnosisItems,omitempty"`
	ProductCoverageDetails []ProductCoverage    `json:"productCoverageDetails,omitempty"`
}

// ValidatedRecord is the LLM-corrected record, the core's sole output.
type ValidatedRecord struct {
	Customer               *CustomerInfo        `json:"customer,omitempty"`
	Agent                  *AgentInfo           `json:"agent"`
	Contracts              []Contract           `json:"contracts"`
	TerminatedContracts    []TerminatedContract `json:"terminatedContracts"`
	DiagnosisItems         []DiagnosisItem      `json:"diagnosisItems"`
	ProductCoverageDetails []ProductCoverage    `json:"productCoverageDetails"`
	TotalPremium           float64              `json:"totalPremium"`
	ActiveMonthlyPremium   float64              `json:"activeMonthlyPremium"`
	SourceModel            BackendID            `json:"sourceModel"`
	Confidence             float64              `json:"confidence"`
	Corrections            []string             `json:"corrections"`
}

// ChunkInfo reports one chunk's outcome for diagnostics.
type ChunkInfo struct {
	Index     int    `json:"index"`
	FirstPage int    `json:"firstPage"`
	LastPage  int    `json:"lastPage"`
	Status    string `json:"status"` // "ok" or "failed"
	Error     string `json:"error,omitempty"`
}

// ValidateMeta carries processing metadata returned alongside a ValidatedRecord.
type ValidateMeta struct {
	ProcessingTimeMs int64       `json:"processingTimeMs"`
	APITimeMs        int64       `json:"apiTimeMs,omitempty"`
	BackendUsed      BackendID   `json:"backendUsed"`
	Mode             string      `json:"mode"` // "single", "escalation" or "parallel"
	ChunkCount       int         `json:"chunkCount,omitempty"`
	FailedChunks     int         `json:"failedChunks,omitempty"`
	Chunks           []ChunkInfo `json:"chunks,omitempty"`
}

// ActivePremiumTotal sums monthly premiums over contracts still paying.
func ActivePremiumTotal(contracts []Contract) float64 {
	var total float64
	for _, c := range contracts {
		if c.PaymentStatus != PaymentCompleted {
			total += c.MonthlyPremium
		}
	}
	return total
}
