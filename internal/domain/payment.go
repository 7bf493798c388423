package domain

import (
	"regexp"
	"strconv"
	"time"
)

// termYearsRe matches the leading digits of a payment-term label such as
// "20년납" or "15yr".
var termYearsRe = regexp.MustCompile(`^(\d{1,3})`)

// TermYears parses the number of payment years from a term label.
// Returns 0 when the label carries no leading digits (e.g. "전기납", "일시납").
func TermYears(label string) int {
	m := termYearsRe.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	years, _ := strconv.Atoi(m[1])
	return years
}

// ResolvePaymentStatus derives a contract's payment status as of a given date.
// A contract is completed when its payment term has fully elapsed. Contracts
// with unparsable dates or open-ended terms stay active.
func ResolvePaymentStatus(contractDate, termLabel string, asOf time.Time) PaymentStatus {
	years := TermYears(termLabel)
	if years == 0 {
		return PaymentActive
	}
	start, err := time.Parse("2006-01-02", contractDate)
	if err != nil {
		return PaymentActive
	}
	if !start.AddDate(years, 0, 0).After(asOf) {
		return PaymentCompleted
	}
	return PaymentActive
}

// Finalize enforces the record's internal invariants before it is handed back
// to the caller:
//   - completed contracts report monthly premium 0, original value moved to
//     PaidPremium for historical totals
//   - diagnosis shortfall and status are recomputed from the amounts
//   - aggregate totals are recomputed from the final contract list
//
// asOf is the injected "today" used for payment-status arithmetic; the zero
// value skips status re-derivation and trusts the statuses already present.
func Finalize(rec *ValidatedRecord, asOf time.Time) {
	for i := range rec.Contracts {
		c := &rec.Contracts[i]
		if !asOf.IsZero() && c.PaymentStatus == "" {
			c.PaymentStatus = ResolvePaymentStatus(c.ContractDate, c.PaymentTermLabel, asOf)
		}
		if c.PaymentStatus == PaymentCompleted && c.MonthlyPremium != 0 {
			c.PaidPremium = c.MonthlyPremium
			c.MonthlyPremium = 0
		}
	}

	for i := range rec.DiagnosisItems {
		d := &rec.DiagnosisItems[i]
		d.ShortfallAmount = Shortfall(d.RecommendedAmount, d.InsuredAmount)
		d.Status = ClassifyDiagnosis(d.RecommendedAmount, d.InsuredAmount)
	}

	total := ActivePremiumTotal(rec.Contracts)
	rec.TotalPremium = total
	rec.ActiveMonthlyPremium = total
}
