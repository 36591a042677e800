// Package markdown turns raw model-generated text into sanitized HTML.
//
// The pipeline is: entity decode -> spacing repair -> value highlighting ->
// markdown parse with domain rendering overrides -> sanitization against a
// fixed allow-list. Structured JSON payloads short-circuit to a dedicated
// card layout. The whole transform is pure and safe for concurrent use.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/microcosm-cc/bluemonday"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			// Raw HTML passes through the parser so the highlight spans
			// survive; the sanitizer governs what reaches the caller.
			ghtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&overrideRenderer{}, 100),
			),
		),
	)
	return &Renderer{
		md:     md,
		policy: newPolicy(),
	}
}

// Render converts raw model output into sanitized HTML. It never returns
// ungoverned markup: any failure degrades to escaped plain text.
func (r *Renderer) Render(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	decoded := DecodeEntities(raw)

	if looksLikeJSON(decoded) {
		return r.policy.Sanitize(renderCard(decoded))
	}

	normalized := Normalize(decoded)
	highlighted := highlightValues(normalized)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(highlighted), &buf); err != nil {
		return fallbackText(decoded)
	}
	return r.policy.Sanitize(buf.String())
}

// overrideRenderer replaces the default rendering of the node kinds that
// carry domain affordances. It holds no state; overrides are a fixed table
// registered once.
type overrideRenderer struct{}

func (r *overrideRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(east.KindTable, r.renderTable)
}

func (r *overrideRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if !entering {
		fmt.Fprintf(w, "</h%d>\n", n.Level)
		return ast.WalkContinue, nil
	}
	text := string(n.Text(source))
	class := "md-heading"
	if isAlertHeading(text) {
		class += " md-heading-alert"
	}
	fmt.Fprintf(w, `<h%d class="%s">`, n.Level, class)
	if icon, ok := headingIcon(text); ok {
		fmt.Fprintf(w, `<i class="%s"></i> `, icon)
	}
	return ast.WalkContinue, nil
}

func (r *overrideRenderer) renderList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	tag := "ul"
	class := "md-list md-list-bulleted"
	if n.IsOrdered() {
		tag = "ol"
		class = "md-list md-list-numbered"
	}
	if entering {
		fmt.Fprintf(w, `<%s class="%s"`, tag, class)
		if n.IsOrdered() && n.Start != 1 {
			fmt.Fprintf(w, ` start="%d"`, n.Start)
		}
		_, _ = w.WriteString(">\n")
	} else {
		fmt.Fprintf(w, "</%s>\n", tag)
	}
	return ast.WalkContinue, nil
}

func (r *overrideRenderer) renderListItem(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</li>\n")
		return ast.WalkContinue, nil
	}
	if itemLeadsWithEmphasis(node) {
		_, _ = w.WriteString(`<li class="md-li-lead">`)
	} else {
		_, _ = w.WriteString("<li>")
	}
	if fc := node.FirstChild(); fc != nil {
		if _, ok := fc.(*ast.TextBlock); !ok {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkContinue, nil
}

// itemLeadsWithEmphasis reports whether a list item's first inline node is
// bold or emphasized text.
func itemLeadsWithEmphasis(node ast.Node) bool {
	block := node.FirstChild()
	if block == nil {
		return false
	}
	first := block.FirstChild()
	_, ok := first.(*ast.Emphasis)
	return ok
}

func (r *overrideRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if entering {
		_, _ = w.WriteString(`<div class="code-block"><button class="copy-code-btn" onclick="copyCodeBlock(this)" title="Copy to clipboard">Copy</button><pre><code`)
		if lang := n.Language(source); lang != nil {
			fmt.Fprintf(w, ` class="language-%s"`, lang)
		}
		_, _ = w.WriteString(">")
		writeEscapedLines(w, source, n)
	} else {
		_, _ = w.WriteString("</code></pre></div>\n")
	}
	return ast.WalkContinue, nil
}

func (r *overrideRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<div class="code-block"><button class="copy-code-btn" onclick="copyCodeBlock(this)" title="Copy to clipboard">Copy</button><pre><code>`)
		writeEscapedLines(w, source, node)
	} else {
		_, _ = w.WriteString("</code></pre></div>\n")
	}
	return ast.WalkContinue, nil
}

func (r *overrideRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<code class="inline-code">`)
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			segment := c.(*ast.Text).Segment
			value := segment.Value(source)
			if bytes.HasSuffix(value, []byte("\n")) {
				_, _ = w.WriteString(html.EscapeString(string(value[:len(value)-1])))
				_, _ = w.WriteString(" ")
			} else {
				_, _ = w.WriteString(html.EscapeString(string(value)))
			}
		}
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString("</code>")
	return ast.WalkContinue, nil
}

func (r *overrideRenderer) renderBlockquote(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		text := string(node.Text(source))
		fmt.Fprintf(w, `<blockquote class="%s">`, classifyQuote(text))
		_ = w.WriteByte('\n')
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}
	return ast.WalkContinue, nil
}

func isExternalURL(dest []byte) bool {
	return bytes.HasPrefix(dest, []byte("http://")) || bytes.HasPrefix(dest, []byte("https://"))
}

func (r *overrideRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	external := isExternalURL(n.Destination)
	if entering {
		_, _ = w.WriteString(`<a href="`)
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
		_ = w.WriteByte('"')
		if n.Title != nil {
			_, _ = w.WriteString(` title="`)
			_, _ = w.Write(util.EscapeHTML(n.Title))
			_ = w.WriteByte('"')
		}
		if external {
			_, _ = w.WriteString(` class="external-link" target="_blank" rel="noopener noreferrer"`)
		}
		_ = w.WriteByte('>')
	} else {
		if external {
			_, _ = w.WriteString(` <i class="fa-arrow-up-right-from-square external-link-icon"></i>`)
		}
		_, _ = w.WriteString("</a>")
	}
	return ast.WalkContinue, nil
}

func (r *overrideRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.AutoLink)
	if !entering {
		return ast.WalkContinue, nil
	}
	url := n.URL(source)
	label := n.Label(source)
	_, _ = w.WriteString(`<a href="`)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		_, _ = w.WriteString("mailto:")
	}
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(url, false)))
	_ = w.WriteByte('"')
	if isExternalURL(url) {
		_, _ = w.WriteString(` class="external-link" target="_blank" rel="noopener noreferrer"`)
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML(label))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

func (r *overrideRenderer) renderTable(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<div class=\"table-scroll\">\n<table>\n")
	} else {
		_, _ = w.WriteString("</table>\n</div>\n")
	}
	return ast.WalkContinue, nil
}

func writeEscapedLines(w util.BufWriter, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.WriteString(html.EscapeString(string(line.Value(source))))
	}
}
