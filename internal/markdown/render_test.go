package markdown

import (
	"strings"
	"testing"
)

func TestRenderHeadingLevels(t *testing.T) {
	t.Parallel()
	r := New()

	got := r.Render("## Title ##")
	if !strings.Contains(got, "<h2") || !strings.Contains(got, "Title") {
		t.Errorf("expected level-2 heading with text Title, got %q", got)
	}
	if strings.Contains(got, "Title ##") {
		t.Errorf("matched trailing delimiters should be stripped, got %q", got)
	}
}

func TestRenderHeadingIcons(t *testing.T) {
	t.Parallel()
	r := New()
	tests := []struct {
		name     string
		input    string
		wantIcon string
	}{
		{"differential heading", "## Differential Diagnoses", "fa-list-ol"},
		{"workup heading", "## Immediate Workup", "fa-vials"},
		{"management heading", "## Management", "fa-briefcase-medical"},
		{"sources heading", "## Sources Used", "fa-book"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.input)
			if !strings.Contains(got, tt.wantIcon) {
				t.Errorf("Render(%q) = %q, want icon %q", tt.input, got, tt.wantIcon)
			}
		})
	}

	// An emoji-led heading keeps its glyph and gets no icon.
	got := r.Render("## 🚨 Red Flags")
	if strings.Contains(got, "<i class=\"fa-") {
		t.Errorf("emoji heading should not get an icon, got %q", got)
	}
	if !strings.Contains(got, "md-heading-alert") {
		t.Errorf("red-flag heading should carry the alert class, got %q", got)
	}
}

func TestRenderLists(t *testing.T) {
	t.Parallel()
	r := New()

	got := r.Render("- plain item\n- **Bold lead** rest")
	if !strings.Contains(got, "md-list-bulleted") {
		t.Errorf("unordered list missing class, got %q", got)
	}
	if !strings.Contains(got, "md-li-lead") {
		t.Errorf("bold-lead item missing class, got %q", got)
	}

	got = r.Render("1. first\n2. second")
	if !strings.Contains(got, "md-list-numbered") {
		t.Errorf("ordered list missing class, got %q", got)
	}
}

func TestRenderCodeBlocks(t *testing.T) {
	t.Parallel()
	r := New()

	got := r.Render("```\n<b>raw</b>\n```")
	if !strings.Contains(got, "code-block") {
		t.Errorf("fenced code missing wrapper, got %q", got)
	}
	if !strings.Contains(got, "copy-code-btn") {
		t.Errorf("fenced code missing copy affordance, got %q", got)
	}
	if strings.Contains(got, "<b>raw</b>") {
		t.Errorf("code content must be escaped, got %q", got)
	}
	if !strings.Contains(got, "&lt;b&gt;") {
		t.Errorf("expected escaped markup inside code, got %q", got)
	}

	got = r.Render("use `foo()` here")
	if !strings.Contains(got, "inline-code") {
		t.Errorf("inline code missing class, got %q", got)
	}
}

func TestRenderBlockquotes(t *testing.T) {
	t.Parallel()
	r := New()
	tests := []struct {
		name      string
		input     string
		wantClass string
	}{
		{"warning", "> Warning: do not delay referral", "quote-warning"},
		{"important", "> This is critical for the patient", "quote-important"},
		{"tip", "> Tip: ask about travel history", "quote-tip"},
		{"note", "> Note: labs pending", "quote-note"},
		{"default", "> just a quotation", "quote-default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.input)
			if !strings.Contains(got, tt.wantClass) {
				t.Errorf("Render(%q) = %q, want class %q", tt.input, got, tt.wantClass)
			}
		})
	}
}

func TestRenderLinks(t *testing.T) {
	t.Parallel()
	r := New()

	got := r.Render("[guidelines](https://example.org/x)")
	for _, want := range []string{`target="_blank"`, "noopener", "noreferrer", "external-link"} {
		if !strings.Contains(got, want) {
			t.Errorf("external link missing %q in %q", want, got)
		}
	}

	got = r.Render("[section](#workup)")
	if strings.Contains(got, "target=") {
		t.Errorf("internal link should not open a new context, got %q", got)
	}
}

func TestRenderTableWrapped(t *testing.T) {
	t.Parallel()
	r := New()
	got := r.Render("| a | b |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(got, "table-scroll") {
		t.Errorf("table missing scroll container, got %q", got)
	}
	if !strings.Contains(got, "<table") {
		t.Errorf("expected a table element, got %q", got)
	}
}

func TestRenderValueHighlighting(t *testing.T) {
	t.Parallel()
	r := New()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"percentage", "probability around 70% overall", "value-highlight\">70%"},
		{"measurement", "glucose was 140 mg/dL fasting", "140 mg/dL</span>"},
		{"temperature", "fever of 38.5 °C persisting", "38.5 °C</span>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.input)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderValueHighlightingSkipsInlineCode(t *testing.T) {
	t.Parallel()
	r := New()

	got := r.Render("Reduce to `70%` of the 80% baseline.")
	if !strings.Contains(got, `<code class="inline-code">70%</code>`) {
		t.Errorf("inline code altered: %q", got)
	}
	if strings.Contains(got, `value-highlight">70%`) {
		t.Errorf("value inside code span was highlighted: %q", got)
	}
	if !strings.Contains(got, `value-highlight">80%`) {
		t.Errorf("value outside code span not highlighted: %q", got)
	}
}

func TestRenderSafety(t *testing.T) {
	t.Parallel()
	r := New()
	tests := []struct {
		name      string
		input     string
		forbidden []string
	}{
		{
			name:      "script tag stripped",
			input:     "hello <script>alert(1)</script> world",
			forbidden: []string{"<script", "alert(1)"},
		},
		{
			name:      "event handler stripped",
			input:     `<img src=x onerror=alert(1)>`,
			forbidden: []string{"onerror", "<img"},
		},
		{
			name:      "javascript uri stripped",
			input:     `[click](javascript:alert(1))`,
			forbidden: []string{"javascript:"},
		},
		{
			name:      "iframe stripped",
			input:     `<iframe src="https://evil.example"></iframe>`,
			forbidden: []string{"<iframe"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.input)
			for _, bad := range tt.forbidden {
				if strings.Contains(got, bad) {
					t.Errorf("Render(%q) leaked %q: %q", tt.input, bad, got)
				}
			}
		})
	}
}

func TestRenderEmptyInput(t *testing.T) {
	t.Parallel()
	r := New()
	if got := r.Render(""); got != "" {
		t.Errorf("empty input should render empty, got %q", got)
	}
	if got := r.Render("   \n  "); got != "" {
		t.Errorf("whitespace input should render empty, got %q", got)
	}
}

func TestFallbackText(t *testing.T) {
	t.Parallel()
	got := fallbackText("a <b> line\nsecond")
	if strings.Contains(got, "<b>") {
		t.Errorf("fallback must escape markup, got %q", got)
	}
	if !strings.Contains(got, "<br>") {
		t.Errorf("fallback should substitute line breaks, got %q", got)
	}
}
