package markdown

import (
	"strings"
	"testing"
)

func TestDecodeEntities(t *testing.T) {
	t.Parallel()
	got := DecodeEntities("&quot;Hello&quot; &amp; &#x27;World&#x27;")
	want := `"Hello" & 'World'`
	if got != want {
		t.Errorf("DecodeEntities = %q, want %q", got, want)
	}
}

func TestStripTrailingHeadingDelims(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "matched pair stripped",
			input: "## Title ##",
			want:  "## Title",
		},
		{
			name:  "mismatched counts left untouched",
			input: "## Title ###",
			want:  "## Title ###",
		},
		{
			name:  "level one",
			input: "# Intro #",
			want:  "# Intro",
		},
		{
			name:  "no trailing delimiters",
			input: "### Findings",
			want:  "### Findings",
		},
		{
			name:  "not a heading",
			input: "plain text ##",
			want:  "plain text ##",
		},
		{
			name:  "seven hashes is not a heading",
			input: "####### Deep #######",
			want:  "####### Deep #######",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripTrailingHeadingDelims(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeBlockBoundaries(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "blank line inserted before heading",
			input: "intro text\n## Findings\ndetail",
			want:  "intro text\n\n## Findings\n\ndetail",
		},
		{
			name:  "adjacent headings separated",
			input: "# One\n## Two",
			want:  "# One\n\n## Two",
		},
		{
			name:  "list separated from preceding paragraph",
			input: "Consider:\n- first\n- second\nafterwards",
			want:  "Consider:\n\n- first\n- second\n\nafterwards",
		},
		{
			name:  "blockquote isolated",
			input: "before\n> quoted\nafter",
			want:  "before\n\n> quoted\n\nafter",
		},
		{
			name:  "excess breaks collapsed",
			input: "a\n\n\n\nb",
			want:  "a\n\nb",
		},
		{
			name:  "leading blank lines trimmed",
			input: "\n\n\ntext",
			want:  "text",
		},
		{
			name:  "already normalized input unchanged",
			input: "## Findings\n\n- one\n- two\n\nclosing",
			want:  "## Findings\n\n- one\n- two\n\nclosing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"## Findings ##\nSome detail follows.\n- item one\n- item two\nThen a paragraph.",
		"# One\n## Two\n### Three",
		"before\n> note: remember this\nafter",
		"## Summary Some content without any line breaks at all. 1. first item",
		"plain paragraph with no structure",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestRepairSingleLine(t *testing.T) {
	t.Parallel()

	input := "## Summary Some content"
	got := Normalize(input)
	if !strings.Contains(got, "## Summary\n\n") {
		t.Errorf("single-line repair should split heading from content, got %q", got)
	}

	// Multi-line input is not touched by the single-line pass.
	multi := "first line # not a heading\nsecond line"
	if got := Normalize(multi); strings.Contains(got, "\n\n# not") {
		t.Errorf("single-line repair applied to multi-line input: %q", got)
	}
}

func TestRepairSingleLineListAfterPunctuation(t *testing.T) {
	t.Parallel()
	input := "Consider the following: 1. check history 2. order tests"
	got := Normalize(input)
	if !strings.Contains(got, ":\n\n1. check history") {
		t.Errorf("expected list break after punctuation, got %q", got)
	}
}
