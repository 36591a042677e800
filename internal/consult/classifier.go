package consult

import (
	"regexp"
	"strings"
)

// QueryType routes a query to its prompt template and validation rules.
type QueryType string

const (
	QueryDifferentialDiagnosis QueryType = "differential_diagnosis"
	QueryDrugInformation       QueryType = "drug_information"
	QueryClinicalGuidance      QueryType = "clinical_guidance"
	QueryGeneral               QueryType = "general_query"
)

// rule is a classification pattern with an associated confidence. Rules are
// a fixed ordered table; the highest-confidence matching rule wins.
type rule struct {
	re         *regexp.Regexp
	queryType  QueryType
	confidence float64
}

var classificationRules = []rule{
	{regexp.MustCompile(`differential diagnosis|what could this be|possible causes|diagnosis|symptoms suggest`), QueryDifferentialDiagnosis, 0.9},
	{regexp.MustCompile(`patient presents with|history of|complaining of|chief complaint`), QueryDifferentialDiagnosis, 0.8},
	{regexp.MustCompile(`workup|investigation|tests needed|what to order`), QueryDifferentialDiagnosis, 0.7},
	{regexp.MustCompile(`drug|medication|medicine|pharmaceutical|dosage|side effects|interactions`), QueryDrugInformation, 0.9},
	{regexp.MustCompile(`contraindications|adverse effects|pharmacology|mechanism of action`), QueryDrugInformation, 0.8},
	{regexp.MustCompile(`treatment|management|therapy|protocol|guideline|recommendation`), QueryClinicalGuidance, 0.8},
	{regexp.MustCompile(`follow-up|monitoring|prognosis|outcome|next steps`), QueryClinicalGuidance, 0.7},
}

const generalConfidence = 0.1

// Classify determines the query type for a question, considering any
// structured case data alongside it.
func Classify(query, caseData string) (QueryType, float64) {
	if strings.TrimSpace(query) == "" {
		return QueryGeneral, 0.0
	}

	combined := strings.ToLower(query + " " + caseData)

	best := QueryGeneral
	bestConfidence := generalConfidence
	for _, r := range classificationRules {
		if r.confidence > bestConfidence && r.re.MatchString(combined) {
			best = r.queryType
			bestConfidence = r.confidence
		}
	}
	return best, bestConfidence
}
