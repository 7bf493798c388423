package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"insureport/internal/domain"
)

// terminatedKey is the canonical field name for the lapsed/cancelled list.
const terminatedKey = "terminatedContracts"

// terminatedSynonyms is the closed set of exact key names backends have been
// observed to emit instead of the canonical one.
var terminatedSynonyms = []string{
	"terminated_contracts",
	"terminatedContract",
	"cancelledContracts",
	"canceledContracts",
	"lapsedContracts",
	"해지계약",
	"해지계약목록",
}

// terminatedMarkers are substrings that identify a key as the terminated list
// when it matches no exact synonym.
var terminatedMarkers = []string{"terminat", "lapse", "cancel", "해지", "실효"}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Normalize parses a backend's raw text output into a ValidatedRecord.
// It tolerates markdown fencing and surrounding prose, reconciles key-name
// drift on the terminated-contracts list, guarantees the agent block and all
// arrays are present, and stamps the source backend.
func Normalize(raw string, id domain.BackendID) (*domain.ValidatedRecord, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableResponse, err)
	}

	reconcileTerminated(obj)

	canonical, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableResponse, err)
	}

	var rec domain.ValidatedRecord
	if err := json.Unmarshal(canonical, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableResponse, err)
	}

	applyDefaults(&rec)
	rec.SourceModel = id
	return &rec, nil
}

// ReconcileTerminatedKey selects which of the given top-level keys holds the
// terminated-contracts list. Exact synonyms win over marker-substring matches;
// keys are scanned in sorted order so the choice is deterministic.
func ReconcileTerminatedKey(keys []string) (string, bool) {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	for _, k := range sorted {
		if k == terminatedKey {
			return k, true
		}
	}
	for _, syn := range terminatedSynonyms {
		for _, k := range sorted {
			if k == syn {
				return k, true
			}
		}
	}
	for _, k := range sorted {
		lower := strings.ToLower(k)
		for _, marker := range terminatedMarkers {
			if strings.Contains(lower, marker) {
				return k, true
			}
		}
	}
	return "", false
}

// reconcileTerminated adopts the first matching candidate key as the canonical
// terminated-contracts field and deletes all other candidates so duplicated
// lists cannot survive into the record. No match yields an empty list.
func reconcileTerminated(obj map[string]json.RawMessage) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	chosen, ok := ReconcileTerminatedKey(keys)
	if !ok {
		obj[terminatedKey] = json.RawMessage("[]")
		return
	}

	value := obj[chosen]
	for _, k := range keys {
		if k == chosen {
			continue
		}
		if _, isCandidate := candidateKey(k); isCandidate {
			delete(obj, k)
		}
	}
	delete(obj, chosen)
	obj[terminatedKey] = value
}

func candidateKey(k string) (string, bool) {
	if k == terminatedKey {
		return k, true
	}
	for _, syn := range terminatedSynonyms {
		if k == syn {
			return k, true
		}
	}
	lower := strings.ToLower(k)
	for _, marker := range terminatedMarkers {
		if strings.Contains(lower, marker) {
			return k, true
		}
	}
	return "", false
}

// applyDefaults ensures required nested blocks exist so downstream consumers
// never branch on their absence. Array contents are never fabricated.
func applyDefaults(rec *domain.ValidatedRecord) {
	if rec.Agent == nil {
		rec.Agent = &domain.AgentInfo{Name: "-", Agency: "-", Phone: "-", Email: "-"}
	}
	// Models occasionally emit free-text payment statuses. Anything outside
	// the enum is coerced to active; an empty status stays empty so it can be
	// derived from the contract date and term later.
	for i := range rec.Contracts {
		c := &rec.Contracts[i]
		if c.PaymentStatus != domain.PaymentActive &&
			c.PaymentStatus != domain.PaymentCompleted &&
			c.PaymentStatus != "" {
			c.PaymentStatus = domain.PaymentActive
		}
	}
	if rec.Contracts == nil {
		rec.Contracts = []domain.Contract{}
	}
	if rec.TerminatedContracts == nil {
		rec.TerminatedContracts = []domain.TerminatedContract{}
	}
	if rec.DiagnosisItems == nil {
		rec.DiagnosisItems = []domain.DiagnosisItem{}
	}
	if rec.ProductCoverageDetails == nil {
		rec.ProductCoverageDetails = []domain.ProductCoverage{}
	}
	if rec.Corrections == nil {
		rec.Corrections = []string{}
	}
}

// extractJSON recovers the JSON object from raw model output: code fences are
// stripped first, then a direct parse is attempted, then the first balanced
// {...} span.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	if strings.HasPrefix(s, "{") && json.Valid([]byte(s)) {
		return s, nil
	}

	if span, ok := braceSpan(s); ok && json.Valid([]byte(span)) {
		return span, nil
	}

	return "", fmt.Errorf("%w: %s", domain.ErrUnparsableResponse, truncate(raw, 200))
}

// braceSpan returns the first balanced top-level {...} span, tracking string
// literals so braces inside values don't break the depth count.
func braceSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
