package markdown

import (
	"html"
	"regexp"
	"strings"
)

// DecodeEntities resolves HTML entities (&quot;, &#x27;, &amp;, ...) to their
// literal characters. Decoding only; nothing is evaluated.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// Section titles the model reliably emits without heading markers. Used only
// for the single-line repair pass; unlisted titles are best-effort.
var knownSectionTitles = []string{
	"Clinical Overview",
	"Critical Alert",
	"Differential Diagnoses",
	"Immediate Workup",
	"Management",
	"Red Flags",
	"Additional Information Needed",
	"Sources Used",
	"Summary",
	"Recommendations",
	"Next Steps",
}

var (
	reHeadingMarker  = regexp.MustCompile(` (#{1,6} )`)
	reListAfterPunct = regexp.MustCompile(`([.!?:;]) (\d+[.)] |[-*+] )`)
	reExcessBreaks   = regexp.MustCompile(`\n{3,}`)
	reLeadingBreaks  = regexp.MustCompile(`^\n+`)
	reHeadingLine    = regexp.MustCompile(`^#{1,6} `)
	reListItemLine   = regexp.MustCompile(`^\s*(\d+[.)]|[-*+\x{2022}])\s+`)
)

// Per-title patterns for the single-line repair: a heading marker plus a
// known title gets its body split onto the next block.
var headedTitleRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(knownSectionTitles))
	for _, t := range knownSectionTitles {
		res = append(res, regexp.MustCompile(`(?i)(#{1,6} `+regexp.QuoteMeta(t)+`:?) +`))
	}
	return res
}()

// Normalize repairs common malformations in model-generated markdown so a
// standard parser produces correct block structure. Pure rewrite, idempotent
// on already-normalized input.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = stripTrailingHeadingDelims(s)
	s = repairSingleLine(s)
	s = insertBlockBoundaries(s)
	s = reExcessBreaks.ReplaceAllString(s, "\n\n")
	s = reLeadingBreaks.ReplaceAllString(s, "")
	return s
}

// stripTrailingHeadingDelims reduces "## Title ##" to "## Title". Only a
// trailing run matching the opening count is stripped; mismatched counts are
// left untouched.
func stripTrailingHeadingDelims(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		open := 0
		for open < len(line) && line[open] == '#' {
			open++
		}
		if open == 0 || open > 6 || open >= len(line) || line[open] != ' ' {
			continue
		}
		trimmed := strings.TrimRight(line, " \t")
		closing := 0
		for closing < len(trimmed) && trimmed[len(trimmed)-1-closing] == '#' {
			closing++
		}
		if closing != open {
			continue
		}
		body := strings.TrimRight(trimmed[:len(trimmed)-closing], " \t")
		if len(body) <= open {
			continue
		}
		lines[i] = body
	}
	return strings.Join(lines, "\n")
}

// repairSingleLine synthesizes block boundaries when the whole input arrived
// as one run-on line: breaks are inserted before heading markers, before the
// known section titles, and before list markers following sentence
// punctuation.
func repairSingleLine(s string) string {
	if strings.Contains(s, "\n") {
		return s
	}
	s = reHeadingMarker.ReplaceAllString(s, "\n\n$1")
	for _, re := range headedTitleRes {
		s = re.ReplaceAllString(s, "$1\n\n")
	}
	for _, title := range knownSectionTitles {
		s = strings.ReplaceAll(s, " "+title+":", "\n\n"+title+":")
	}
	s = reListAfterPunct.ReplaceAllString(s, "$1\n\n$2")
	return s
}

func isHeadingLine(line string) bool {
	return reHeadingLine.MatchString(line)
}

func isListItemLine(line string) bool {
	return reListItemLine.MatchString(line)
}

func isBlockquoteLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), ">")
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// insertBlockBoundaries walks the lines once, inserting a blank line at every
// block transition: before/after headings, before the first item of a list
// and after the last, and around blockquote runs. Already-separated blocks
// are left alone.
func insertBlockBoundaries(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines)+8)
	for _, line := range lines {
		prev := ""
		if len(out) > 0 {
			prev = out[len(out)-1]
		}
		blank := isBlankLine(line)
		prevBlank := prev == "" || isBlankLine(prev)
		switch {
		case blank:
			// keep as-is; collapse pass handles runs
		case isHeadingLine(line):
			if !prevBlank && len(out) > 0 {
				out = append(out, "")
			}
		case isListItemLine(line):
			if !prevBlank && !isListItemLine(prev) {
				out = append(out, "")
			}
		case isBlockquoteLine(line):
			if !prevBlank && !isBlockquoteLine(prev) {
				out = append(out, "")
			}
		default:
			// Indented lines are treated as continuations of the item above.
			indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
			if !prevBlank && !indented && (isHeadingLine(prev) || isListItemLine(prev) || isBlockquoteLine(prev)) {
				out = append(out, "")
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
