package markdown

import (
	"regexp"
	"strings"
	"testing"
)

func TestRenderCardBasic(t *testing.T) {
	t.Parallel()
	r := New()

	got := r.Render(`{"clinical_overview":"X","red_flags":["A","B"]}`)
	if !strings.Contains(got, "card-overview") || !strings.Contains(got, ">X<") {
		t.Errorf("overview section missing, got %q", got)
	}
	idxA := strings.Index(got, ">A<")
	idxB := strings.Index(got, ">B<")
	if idxA == -1 || idxB == -1 || idxA > idxB {
		t.Errorf("red flags should list A then B, got %q", got)
	}
}

func TestRenderCardEmptyObject(t *testing.T) {
	t.Parallel()
	r := New()
	got := r.Render("{}")
	if !strings.Contains(got, "consultation-card") {
		t.Errorf("empty object should render an empty card, got %q", got)
	}
	if strings.Contains(got, "card-section") || strings.Contains(got, "error") {
		t.Errorf("empty card should have no sections or errors, got %q", got)
	}
}

func TestRenderCardMalformedJSON(t *testing.T) {
	t.Parallel()
	r := New()
	got := r.Render(`{"clinical_overview": "unterminated`)
	if !strings.Contains(got, "Could not parse") {
		t.Errorf("malformed JSON should produce an inline error, got %q", got)
	}
}

func TestDifferentialSortStableDescending(t *testing.T) {
	t.Parallel()
	r := New()
	payload := `{
		"differential_diagnoses": [
			{"diagnosis": "Alpha", "probability_percent": 30},
			{"diagnosis": "Bravo", "probability_percent": 70},
			{"diagnosis": "Charlie", "probability_percent": 70},
			{"diagnosis": "Delta", "probability_percent": 10}
		]
	}`
	got := r.Render(payload)

	order := []string{"Bravo", "Charlie", "Alpha", "Delta"}
	last := -1
	for _, name := range order {
		idx := strings.Index(got, name)
		if idx == -1 {
			t.Fatalf("diagnosis %s missing from output %q", name, got)
		}
		if idx < last {
			t.Errorf("diagnosis order wrong, want %v in %q", order, got)
		}
		last = idx
	}
}

func TestRenderCardProbabilityBadges(t *testing.T) {
	t.Parallel()
	r := New()
	payload := `{"differential_diagnoses":[
		{"diagnosis":"High", "probability_percent": 75},
		{"diagnosis":"Mid", "probability_percent": 40},
		{"diagnosis":"Low", "probability_percent": 5}
	]}`
	got := r.Render(payload)
	for _, want := range []string{"probability-high", "probability-moderate", "probability-low"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing badge class %q in %q", want, got)
		}
	}
}

func TestRenderCardCriticalAlert(t *testing.T) {
	t.Parallel()
	r := New()

	got := r.Render(`{"critical_alert": "Sepsis risk"}`)
	if !strings.Contains(got, "card-alert") || !strings.Contains(got, "Sepsis risk") {
		t.Errorf("string alert not rendered, got %q", got)
	}

	got = r.Render(`{"critical_alert": true}`)
	if !strings.Contains(got, "card-alert") {
		t.Errorf("boolean alert not rendered, got %q", got)
	}

	got = r.Render(`{"critical_alert": false}`)
	if strings.Contains(got, "card-alert") {
		t.Errorf("false alert should not render, got %q", got)
	}
}

func TestRenderCardEscapesContent(t *testing.T) {
	t.Parallel()
	r := New()
	got := r.Render(`{"clinical_overview":"<script>alert(1)</script>"}`)
	if strings.Contains(got, "<script") {
		t.Errorf("card content must be escaped, got %q", got)
	}
}

func TestLooksLikeJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  bool
	}{
		{`{"a": 1}`, true},
		{"  {\n}\n", true},
		{"## heading", false},
		{"{incomplete", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := looksLikeJSON(tt.input); got != tt.want {
			t.Errorf("looksLikeJSON(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTrimFloat(t *testing.T) {
	t.Parallel()
	re := regexp.MustCompile(`^\d+(\.\d)?$`)
	for _, tt := range []struct {
		in   float64
		want string
	}{
		{70, "70"},
		{12.5, "12.5"},
		{0, "0"},
	} {
		got := trimFloat(tt.in)
		if got != tt.want {
			t.Errorf("trimFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
		if !re.MatchString(got) {
			t.Errorf("trimFloat(%v) = %q, unexpected shape", tt.in, got)
		}
	}
}
