package markdown

import (
	"strings"
	"unicode"
)

// iconRule maps a heading keyword to an icon class. Rules are evaluated in
// order; the first case-insensitive substring match wins.
type iconRule struct {
	keyword string
	icon    string
}

var headingIcons = []iconRule{
	{"differential", "fa-list-ol"},
	{"diagnos", "fa-stethoscope"},
	{"workup", "fa-vials"},
	{"investigation", "fa-vials"},
	{"red flag", "fa-triangle-exclamation"},
	{"alert", "fa-triangle-exclamation"},
	{"management", "fa-briefcase-medical"},
	{"treatment", "fa-pills"},
	{"medication", "fa-pills"},
	{"overview", "fa-file-lines"},
	{"summary", "fa-file-lines"},
	{"source", "fa-book"},
	{"reference", "fa-book"},
	{"recommend", "fa-circle-check"},
	{"follow", "fa-calendar-check"},
	{"information", "fa-circle-info"},
}

// headingIcon returns the icon class for a heading, or false when the
// heading already leads with an emoji or matches no keyword.
func headingIcon(text string) (string, bool) {
	if startsWithEmoji(text) {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, rule := range headingIcons {
		if strings.Contains(lower, rule.keyword) {
			return rule.icon, true
		}
	}
	return "", false
}

// isAlertHeading reports whether a heading should carry the alert style.
func isAlertHeading(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "alert") || strings.Contains(lower, "red flag")
}

// startsWithEmoji reports whether the first rune is an emoji-range glyph.
func startsWithEmoji(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		switch {
		case r >= 0x1F000 && r <= 0x1FAFF: // emoji and pictograph blocks
			return true
		case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
			return true
		case r == 0x2B55 || r == 0x2B50 || r == 0x203C || r == 0x2049:
			return true
		case unicode.Is(unicode.So, r):
			return true
		}
		return false
	}
	return false
}

// quoteRule classifies a blockquote by keyword or emoji. Rules are evaluated
// in order; the first match wins, with a generic default.
type quoteRule struct {
	keywords []string
	class    string
}

var quoteStyles = []quoteRule{
	{[]string{"⚠", "warning", "caution", "do not"}, "quote-warning"},
	{[]string{"❗", "‼", "important", "critical", "urgent"}, "quote-important"},
	{[]string{"💡", "tip", "hint"}, "quote-tip"},
	{[]string{"ℹ", "note:", "note ", "nb:", "remember"}, "quote-note"},
}

const quoteDefaultClass = "quote-default"

func classifyQuote(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range quoteStyles {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.class
			}
		}
	}
	return quoteDefaultClass
}
