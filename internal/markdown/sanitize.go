package markdown

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// newPolicy builds the fixed allow-list the renderer output is held to.
// Anything outside it is stripped, not escaped-and-kept.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr",
		"strong", "b", "em", "i", "u", "s", "del",
		"ul", "ol", "li",
		"blockquote",
		"code", "pre",
		"a",
		"table", "thead", "tbody", "tr", "th", "td",
		"div", "span", "button",
	)

	p.AllowAttrs("class", "id", "style", "title").Globally()
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("start").OnElements("ol")
	p.AllowAttrs("align").OnElements("th", "td")
	p.AllowAttrs("onclick").OnElements("button")

	p.AllowURLSchemes("http", "https", "mailto", "tel", "callto", "sms", "cid", "xmpp")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)

	return p
}

// fallbackText is the degradation path: no markup at all, just escaped text
// with line breaks preserved.
func fallbackText(s string) string {
	escaped := html.EscapeString(s)
	return strings.ReplaceAll(escaped, "\n", "<br>\n")
}
