// Package consult processes raw model responses before storage and display:
// structured-payload extraction and cleanup, source extraction, quality
// validation, and query classification.
package consult

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/mamaope/legalconsult/internal/models"
)

type ResponseFormat string

const (
	FormatJSON ResponseFormat = "json"
	FormatText ResponseFormat = "text"
)

// Processed is a model response after extraction and cleanup.
type Processed struct {
	Content      string
	Format       ResponseFormat
	Consultation *models.Consultation
	QueryType    QueryType
	Valid        bool
	ErrorMessage string
}

type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

var reFencedJSON = regexp.MustCompile("(?is)```(?:json)?\\s*\n?(.*?)\n?```")

// Process turns a raw model response into its stored form. JSON payloads,
// bare or inside fenced code blocks, are extracted; consultation-shaped ones
// are cleaned against the schema, other JSON is re-indented unchanged, and
// everything else passes through as text.
func (p *Processor) Process(raw string, queryType QueryType) Processed {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Processed{Format: FormatText, QueryType: queryType, Valid: false, ErrorMessage: "empty response"}
	}

	if payload, ok := extractJSON(raw); ok {
		return p.processJSON(payload, queryType)
	}
	return Processed{
		Content:   raw,
		Format:    FormatText,
		QueryType: queryType,
		Valid:     true,
	}
}

// extractJSON finds a parseable JSON object either directly or inside a
// fenced code block.
func extractJSON(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return trimmed, true
	}
	for _, m := range reFencedJSON.FindAllStringSubmatch(raw, -1) {
		candidate := strings.TrimSpace(m[1])
		if strings.HasPrefix(candidate, "{") && json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

func (p *Processor) processJSON(payload string, queryType QueryType) Processed {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return Processed{
			Content:      payload,
			Format:       FormatJSON,
			QueryType:    queryType,
			Valid:        false,
			ErrorMessage: err.Error(),
		}
	}

	// Only consultation-shaped payloads get schema cleaning; any other JSON
	// passes through re-indented, keys and values untouched.
	if !isConsultationJSON(fields) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(payload), "", "  "); err != nil {
			return Processed{
				Content:      payload,
				Format:       FormatJSON,
				QueryType:    queryType,
				Valid:        false,
				ErrorMessage: err.Error(),
			}
		}
		return Processed{
			Content:   buf.String(),
			Format:    FormatJSON,
			QueryType: queryType,
			Valid:     true,
		}
	}

	var c models.Consultation
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Processed{
			Content:      payload,
			Format:       FormatJSON,
			QueryType:    queryType,
			Valid:        false,
			ErrorMessage: err.Error(),
		}
	}

	cleaned := cleanConsultation(c)
	out, err := json.MarshalIndent(cleaned, "", "  ")
	if err != nil {
		return Processed{
			Content:      payload,
			Format:       FormatJSON,
			QueryType:    queryType,
			Valid:        false,
			ErrorMessage: err.Error(),
		}
	}
	return Processed{
		Content:      string(out),
		Format:       FormatJSON,
		Consultation: &cleaned,
		QueryType:    queryType,
		Valid:        true,
	}
}

// isConsultationJSON reports whether a payload carries the consultation
// schema: both the overview and the differential list must be present.
func isConsultationJSON(fields map[string]json.RawMessage) bool {
	_, hasOverview := fields["clinical_overview"]
	_, hasDifferentials := fields["differential_diagnoses"]
	return hasOverview && hasDifferentials
}

// cleanConsultation trims strings, drops empty list entries and clamps
// probabilities to whole percentages in 0..100.
func cleanConsultation(c models.Consultation) models.Consultation {
	cleaned := models.Consultation{
		ClinicalOverview:            strings.TrimSpace(c.ClinicalOverview),
		CriticalAlert:               c.CriticalAlert,
		ImmediateWorkup:             cleanList(c.ImmediateWorkup),
		Management:                  cleanList(c.Management),
		RedFlags:                    cleanList(c.RedFlags),
		AdditionalInformationNeeded: strings.TrimSpace(c.AdditionalInformationNeeded),
		SourcesUsed:                 cleanList(c.SourcesUsed),
	}
	for _, d := range c.DifferentialDiagnoses {
		cleaned.DifferentialDiagnoses = append(cleaned.DifferentialDiagnoses, models.Diagnosis{
			Diagnosis:          strings.TrimSpace(d.Diagnosis),
			ProbabilityPercent: clampProbability(d.ProbabilityPercent),
			Evidence:           strings.TrimSpace(d.Evidence),
			Citations:          cleanList(d.Citations),
		})
	}
	return cleaned
}

func clampProbability(p float64) float64 {
	n := math.Trunc(p)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var sourcePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[Source: ([^\]]+)\]`),
	regexp.MustCompile(`(?im)^\s*Source:\s*([^\n]+)`),
	regexp.MustCompile(`(?im)^\s*Reference:\s*([^\n]+)`),
}

// ExtractSources collects cited sources from a response, deduplicated in
// first-seen order.
func ExtractSources(response string) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, re := range sourcePatterns {
		for _, m := range re.FindAllStringSubmatch(response, -1) {
			s := strings.TrimSpace(m[1])
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			sources = append(sources, s)
		}
	}
	return sources
}

// Validation reports response quality checks and basic metrics.
type Validation struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Length     int      `json:"length"`
	WordCount  int      `json:"word_count"`
	HasSources bool     `json:"has_sources"`
}

const (
	minResponseLength  = 10
	longResponseLength = 50000
)

// Validate runs basic quality checks over a response.
func Validate(response string, queryType QueryType) Validation {
	v := Validation{Valid: true}

	if len(strings.TrimSpace(response)) < minResponseLength {
		v.Valid = false
		v.Errors = append(v.Errors, "response too short")
	}
	if len(response) > longResponseLength {
		v.Warnings = append(v.Warnings, "response very long")
	}
	if queryType == QueryDifferentialDiagnosis && !strings.Contains(strings.ToLower(response), "differential") {
		v.Warnings = append(v.Warnings, "missing differential diagnosis content")
	}

	v.Length = len(response)
	v.WordCount = len(strings.Fields(response))
	v.HasSources = len(ExtractSources(response)) > 0
	return v
}
