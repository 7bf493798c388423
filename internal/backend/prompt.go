package backend

import (
	"encoding/json"
	"strings"

	"insureport/internal/domain"
)

// CoverageCatalog is the closed list of diagnosis coverage names, grouped by
// category. Models must only emit coverage names from this list.
var CoverageCatalog = map[string][]string{
	"사망보장":  {"일반사망", "질병사망", "재해사망", "상해사망"},
	"암진단":   {"암진단", "유사암진단", "고액암진단", "재진단암"},
	"2대질환":  {"뇌혈관질환진단", "뇌졸중진단", "뇌출혈진단", "허혈성심장질환진단", "급성심근경색진단"},
	"수술":    {"암수술", "뇌혈관질환수술", "심장질환수술", "질병수술", "상해수술"},
	"입원":    {"암입원일당", "질병입원일당", "상해입원일당", "간병인사용입원일당"},
	"후유장해":  {"질병후유장해", "상해후유장해"},
	"실손의료비": {"질병입원의료비", "질병통원의료비", "상해입원의료비", "상해통원의료비"},
	"배상.비용": {"일상생활배상책임", "가족일상생활배상책임", "화재벌금", "교통사고처리지원금", "변호사선임비용"},
	"기타":    {"골절진단", "화상진단"},
}

// catalogOrder fixes the category ordering in the instruction text.
var catalogOrder = []string{
	"사망보장", "암진단", "2대질환", "수술", "입원", "후유장해", "실손의료비", "배상.비용", "기타",
}

// BuildInstruction returns the extraction instruction sent to every backend.
// All three vendor adapters share this single template so their effective
// contracts cannot drift apart; the draft record is embedded as a hint that
// the source document always overrides.
func BuildInstruction(draft *domain.DraftRecord) string {
	var b strings.Builder

	b.WriteString(`You are an insurance document data extraction assistant. Analyze the provided Korean insurance-report PDF and extract ALL data into the JSON structure below.

IMPORTANT INSTRUCTIONS:
- The document may span multiple pages. Extract EVERY contract, terminated contract, diagnosis row, and per-product coverage line from every page. Do not skip, summarize, or omit any entries.
- Normalize all dates to YYYY-MM-DD format. Strip timestamps and annotations.
- Amounts are KRW numbers with no thousands separators or currency symbols.
- "coverageName" values in diagnosisItems MUST come from this closed list:
`)

	for _, cat := range catalogOrder {
		b.WriteString("  [" + cat + "] " + strings.Join(CoverageCatalog[cat], ", ") + "\n")
	}

	b.WriteString(`
- Use exactly "terminatedContracts" as the key for lapsed/cancelled contracts.
- paymentStatus is "active" or "completed"; terminated contract status is "lapsed" or "cancelled".
- List every correction you made to the hint data as a human-readable string in "corrections".
- Never invent entries: if a section is absent from the document, return an empty array for it.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. The object must follow this schema:
{
  "customer": {"name": "", "birthDate": "", "gender": "", "phone": ""},
  "agent": {"name": "", "agency": "", "phone": "", "email": ""},
  "contracts": [
    {"sequenceNo": 0, "insurer": "", "product": "", "contractDate": "",
     "paymentCycle": "", "paymentTermLabel": "", "maturityLabel": "",
     "monthlyPremium": 0, "paymentStatus": "active"}
  ],
  "terminatedContracts": [
    {"sequenceNo": 0, "insurer": "", "product": "", "contractDate": "",
     "monthlyPremium": 0, "status": "lapsed", "cancelReason": ""}
  ],
  "diagnosisItems": [
    {"coverageName": "", "recommendedAmount": 0, "insuredAmount": 0,
     "shortfallAmount": 0, "status": "insufficient"}
  ],
  "productCoverageDetails": [
    {"productName": "", "insurer": "", "coverages": [
      {"sequenceNo": 0, "category": "", "companyCoverageName": "",
       "standardCoverageName": "", "insuredAmount": 0}
    ]}
  ],
  "totalPremium": 0,
  "activeMonthlyPremium": 0,
  "corrections": []
}
`)

	if draft != nil {
		hint, err := json.Marshal(draft)
		if err == nil {
			b.WriteString(`
The following draft was produced by a heuristic pre-parser. Use it only as a hint; wherever it conflicts with the document, the DOCUMENT CONTENT ALWAYS WINS:
`)
			b.Write(hint)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// CoverageCount returns the catalog size. Kept as a function so the closed
// list and the instruction text cannot disagree silently.
func CoverageCount() int {
	n := 0
	for _, names := range CoverageCatalog {
		n += len(names)
	}
	return n
}
