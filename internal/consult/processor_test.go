package consult

import (
	"strings"
	"testing"
)

func TestProcessDirectJSON(t *testing.T) {
	t.Parallel()
	p := NewProcessor()

	got := p.Process(`{"clinical_overview": "  overview  ", "differential_diagnoses": [{"diagnosis": "Malaria", "probability_percent": 140}, {"diagnosis": "Typhoid", "probability_percent": 70.5}]}`, QueryDifferentialDiagnosis)
	if !got.Valid {
		t.Fatalf("expected valid result, got error %q", got.ErrorMessage)
	}
	if got.Format != FormatJSON {
		t.Errorf("Format = %q, want json", got.Format)
	}
	if got.Consultation == nil {
		t.Fatal("expected parsed consultation")
	}
	if got.Consultation.ClinicalOverview != "overview" {
		t.Errorf("overview not trimmed: %q", got.Consultation.ClinicalOverview)
	}
	if p := got.Consultation.DifferentialDiagnoses[0].ProbabilityPercent; p != 100 {
		t.Errorf("probability not clamped, got %v", p)
	}
	if p := got.Consultation.DifferentialDiagnoses[1].ProbabilityPercent; p != 70 {
		t.Errorf("probability not truncated to a whole percent, got %v", p)
	}
}

func TestProcessNonSchemaJSON(t *testing.T) {
	t.Parallel()
	p := NewProcessor()

	got := p.Process(`{"answer": "The statute of limitations is two years.", "jurisdiction": "VIC"}`, QueryGeneral)
	if !got.Valid {
		t.Fatalf("expected valid result, got error %q", got.ErrorMessage)
	}
	if got.Format != FormatJSON {
		t.Errorf("Format = %q, want json", got.Format)
	}
	if got.Consultation != nil {
		t.Error("non-schema JSON should not produce a consultation")
	}
	if !strings.Contains(got.Content, "The statute of limitations is two years.") {
		t.Errorf("answer lost in passthrough: %q", got.Content)
	}
	if !strings.Contains(got.Content, "\n  \"jurisdiction\"") {
		t.Errorf("passthrough not re-indented: %q", got.Content)
	}
}

func TestProcessFencedJSON(t *testing.T) {
	t.Parallel()
	p := NewProcessor()

	raw := "Here is the analysis:\n```json\n{\"clinical_overview\": \"fenced\", \"differential_diagnoses\": []}\n```\nThanks."
	got := p.Process(raw, QueryDifferentialDiagnosis)
	if !got.Valid || got.Format != FormatJSON {
		t.Fatalf("fenced JSON not extracted: %+v", got)
	}
	if got.Consultation.ClinicalOverview != "fenced" {
		t.Errorf("overview = %q, want fenced", got.Consultation.ClinicalOverview)
	}
}

func TestProcessPlainText(t *testing.T) {
	t.Parallel()
	p := NewProcessor()

	got := p.Process("The likely explanation is viral.", QueryGeneral)
	if !got.Valid || got.Format != FormatText {
		t.Fatalf("text response mishandled: %+v", got)
	}
	if got.Consultation != nil {
		t.Error("text response should not produce a consultation")
	}
}

func TestProcessEmpty(t *testing.T) {
	t.Parallel()
	p := NewProcessor()
	got := p.Process("   ", QueryGeneral)
	if got.Valid {
		t.Error("empty response should be invalid")
	}
}

func TestCleanConsultationDropsEmptyItems(t *testing.T) {
	t.Parallel()
	p := NewProcessor()
	got := p.Process(`{"clinical_overview": "overview", "differential_diagnoses": [], "red_flags": ["A", "  ", "", "B"]}`, QueryDifferentialDiagnosis)
	if !got.Valid {
		t.Fatal("expected valid result")
	}
	flags := got.Consultation.RedFlags
	if len(flags) != 2 || flags[0] != "A" || flags[1] != "B" {
		t.Errorf("red flags = %v, want [A B]", flags)
	}
	if strings.Contains(got.Content, `"management"`) {
		t.Errorf("absent fields should be omitted on re-marshal: %q", got.Content)
	}
}

func TestExtractSources(t *testing.T) {
	t.Parallel()
	response := "Consider malaria. [Source: WHO Guidelines]\nReference: Harrison's Internal Medicine\nAlso [Source: WHO Guidelines] again."
	got := ExtractSources(response)
	if len(got) != 2 {
		t.Fatalf("got %d sources %v, want 2", len(got), got)
	}
	if got[0] != "WHO Guidelines" || got[1] != "Harrison's Internal Medicine" {
		t.Errorf("sources = %v", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		response  string
		queryType QueryType
		wantValid bool
		wantWarn  string
	}{
		{
			name:      "too short",
			response:  "ok",
			queryType: QueryGeneral,
			wantValid: false,
		},
		{
			name:      "missing differential content",
			response:  "The patient should rest and hydrate for several days.",
			queryType: QueryDifferentialDiagnosis,
			wantValid: true,
			wantWarn:  "missing differential diagnosis content",
		},
		{
			name:      "normal",
			response:  "The differential includes viral and bacterial causes.",
			queryType: QueryDifferentialDiagnosis,
			wantValid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.response, tt.queryType)
			if got.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if tt.wantWarn != "" {
				found := false
				for _, w := range got.Warnings {
					if strings.Contains(w, tt.wantWarn) {
						found = true
					}
				}
				if !found {
					t.Errorf("warnings %v missing %q", got.Warnings, tt.wantWarn)
				}
			}
			if got.WordCount == 0 && tt.response != "" {
				t.Error("word count not computed")
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		query    string
		caseData string
		want     QueryType
		wantConf float64
	}{
		{
			name:     "differential",
			query:    "What could this be given the fever and rash?",
			want:     QueryDifferentialDiagnosis,
			wantConf: 0.9,
		},
		{
			name:     "drug information",
			query:    "What is the dosage of amoxicillin for children?",
			want:     QueryDrugInformation,
			wantConf: 0.9,
		},
		{
			name:     "clinical guidance",
			query:    "What is the recommended management protocol?",
			want:     QueryClinicalGuidance,
			wantConf: 0.8,
		},
		{
			name:     "case data contributes",
			query:    "Please advise",
			caseData: "patient presents with chest pain",
			want:     QueryDifferentialDiagnosis,
			wantConf: 0.8,
		},
		{
			name:     "general fallback",
			query:    "hello there",
			want:     QueryGeneral,
			wantConf: 0.1,
		},
		{
			name:     "empty query",
			query:    "",
			want:     QueryGeneral,
			wantConf: 0.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, conf := Classify(tt.query, tt.caseData)
			if got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
			if conf != tt.wantConf {
				t.Errorf("confidence = %v, want %v", conf, tt.wantConf)
			}
		})
	}
}
