package markdown

import (
	"regexp"
	"strings"
)

// Value patterns are wrapped before the markdown parse so the spans go
// through the parser as raw HTML; wrapping afterwards would risk corrupting
// generated tag attributes.
var (
	rePercent     = regexp.MustCompile(`(\d+(?:\.\d+)?%)`)
	reMeasurement = regexp.MustCompile(`(\d+(?:\.\d+)?\s?(?:mg/dL|mmol/L|mEq/L|g/dL|ng/mL|mcg/mL|IU/L|U/L|mm/hr|mmHg|bpm))`)
	reTemperature = regexp.MustCompile(`(\d+(?:\.\d+)?\s?°\s?[CF])`)
)

// highlightValues wraps percentages, measurements with units, and
// temperatures in highlight spans. Fenced blocks and inline code spans are
// left alone.
func highlightValues(s string) string {
	parts := strings.Split(s, "```")
	for i := 0; i < len(parts); i += 2 {
		parts[i] = highlightOutsideCode(parts[i])
	}
	return strings.Join(parts, "```")
}

// highlightOutsideCode applies the value patterns between inline code spans:
// splitting on backticks leaves span interiors at the odd indices.
func highlightOutsideCode(s string) string {
	parts := strings.Split(s, "`")
	for i := 0; i < len(parts); i += 2 {
		p := parts[i]
		p = reMeasurement.ReplaceAllString(p, `<span class="value-highlight">$1</span>`)
		p = reTemperature.ReplaceAllString(p, `<span class="value-highlight">$1</span>`)
		p = rePercent.ReplaceAllString(p, `<span class="value-highlight">$1</span>`)
		parts[i] = p
	}
	return strings.Join(parts, "`")
}
