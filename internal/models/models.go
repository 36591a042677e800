package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

type User struct {
	ID        string
	Email     string
	FullName  string
	Active    bool
	CreatedAt time.Time
}

type Session struct {
	ID           string
	UserID       string
	Name         string
	CaseSummary  sql.NullString
	Active       bool
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Message roles as stored in the messages table.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	ID               int64
	SessionID        string
	Role             string // "user" or "assistant"
	Content          string
	CaseData         sql.NullString // JSON blob of structured case details
	AnalysisComplete bool
	CreatedAt        time.Time
}

// Document is a corpus document fetched from the reference mirror.
type Document struct {
	Name      string
	Size      int64
	ModTime   time.Time
	FetchedAt time.Time
}

// Consultation is the structured payload shape the model emits for
// differential-analysis answers. Missing fields stay zero-valued and
// are simply not rendered.
type Consultation struct {
	ClinicalOverview            string       `json:"clinical_overview,omitempty"`
	CriticalAlert               StringOrBool `json:"critical_alert,omitzero"`
	DifferentialDiagnoses       []Diagnosis  `json:"differential_diagnoses,omitempty"`
	ImmediateWorkup             []string     `json:"immediate_workup,omitempty"`
	Management                  []string     `json:"management,omitempty"`
	RedFlags                    []string     `json:"red_flags,omitempty"`
	AdditionalInformationNeeded string       `json:"additional_information_needed,omitempty"`
	SourcesUsed                 []string     `json:"sources_used,omitempty"`
}

type Diagnosis struct {
	Diagnosis          string   `json:"diagnosis"`
	ProbabilityPercent float64  `json:"probability_percent"`
	Evidence           string   `json:"evidence"`
	Citations          []string `json:"citations"`
}

// StringOrBool is a JSON field the model emits inconsistently as either a
// string or a bool. Unknown shapes are treated as unset rather than failing
// the whole payload.
type StringOrBool struct {
	Text string
	Set  bool
}

func (v *StringOrBool) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v.Text = s
		v.Set = s != ""
		return nil
	}
	var t bool
	if err := json.Unmarshal(b, &t); err == nil {
		v.Set = t
		return nil
	}
	return nil
}

func (v StringOrBool) MarshalJSON() ([]byte, error) {
	if v.Text != "" {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Set)
}
