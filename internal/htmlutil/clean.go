package htmlutil

import (
	"strings"
	"unicode"

	"github.com/k3a/html2text"
)

// ToText converts HTML to plain text using a proper HTML parser.
// Handles entities, strips tags, and preserves readable text.
func ToText(s string) string {
	return html2text.HTML2Text(s)
}

// Excerpt returns a plain-text preview of rendered HTML, truncated on a
// rune boundary.
func Excerpt(html string, limit int) string {
	text := strings.Join(strings.Fields(ToText(html)), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !unicode.IsSpace(runes[cut-1]) {
		cut--
	}
	if cut == 0 {
		cut = limit
	}
	return strings.TrimSpace(string(runes[:cut])) + "…"
}
