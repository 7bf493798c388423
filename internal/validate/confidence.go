package validate

import (
	"math"
	"regexp"

	"insureport/internal/domain"
)

// Confidence constants observed as behavioral contracts of the scoring
// heuristic. The score measures schema-following and internal arithmetic
// consistency, not ground-truth accuracy.
const (
	// EscalationThreshold is the confidence a primary result must exceed to
	// short-circuit escalation.
	EscalationThreshold = 0.85
	// SecondaryConfidence is stamped on secondary-backend results, which are
	// assumed high-accuracy and never re-scored.
	SecondaryConfidence = 0.95
	// TertiaryConfidence is stamped on last-resort tertiary results.
	TertiaryConfidence = 0.90

	penaltyNoContracts    = 0.2
	penaltyNoDiagnosis    = 0.2
	penaltyBadDate        = 0.05
	penaltyTotalsMismatch = 0.3

	// premiumTolerance is the absolute drift (KRW) allowed between the
	// declared total and the sum of active monthly premiums.
	premiumTolerance = 10000.0
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Score computes the trust score in [0,1] for a normalized record.
func Score(rec *domain.ValidatedRecord) float64 {
	score := 1.0

	if len(rec.Contracts) == 0 {
		score -= penaltyNoContracts
	}
	if len(rec.DiagnosisItems) == 0 {
		score -= penaltyNoDiagnosis
	}

	for _, c := range rec.Contracts {
		if !isoDateRe.MatchString(c.ContractDate) {
			score -= penaltyBadDate
		}
	}

	computed := domain.ActivePremiumTotal(rec.Contracts)
	if math.Abs(rec.TotalPremium-computed) > premiumTolerance {
		score -= penaltyTotalsMismatch
	}

	if score < 0 {
		return 0
	}
	return score
}
