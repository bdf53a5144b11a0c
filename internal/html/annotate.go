package html

import (
	"errors"
	"io"
	"log"
	"strings"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"go.abhg.dev/rstview/internal/highlight"
	"go.abhg.dev/rstview/internal/rst"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultCodeSelector matches code blocks in compiled RST documents.
const DefaultCodeSelector = ".code"

// Highlighter renders code into HTML.
type Highlighter interface {
	Highlight(*highlight.Code) string
	PreAttr() (key, val string)
	WriteCSS(io.Writer) error
}

var _ Highlighter = (*highlight.Highlighter)(nil)

// Annotator tags code blocks in compiled RST documents
// with the languages they were written in.
//
// Compiled documents don't record languages,
// so the Annotator matches each block's text
// against the original RST source with [rst.Resolver].
//
// Each code block gets the form
//
//	<pre class="language-X"><code class="language-X">...</code></pre>
//
// where X is the resolved language or [rst.None].
type Annotator struct {
	// Selector matches code blocks in compiled HTML.
	// Defaults to [DefaultCodeSelector].
	Selector cascadia.Matcher

	// Highlighter, if set, highlights the contents
	// of every tagged code block.
	Highlighter Highlighter

	// DebugLog receives a line for every tagged block.
	// Use nil to disable debug logging.
	DebugLog *log.Logger
}

var _defaultCodeSelector = cascadia.MustCompile(DefaultCodeSelector)

// Annotate tags all code blocks in body,
// which is compiled HTML for the RST source src,
// and returns the modified HTML.
func (a *Annotator) Annotate(src, body string) (string, error) {
	sel := a.Selector
	if sel == nil {
		sel = _defaultCodeSelector
	}

	nodes, err := html.ParseFragment(strings.NewReader(body), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	if a.DebugLog != nil {
		for _, m := range rst.Extract(src) {
			a.DebugLog.Printf("source block at %d: %v %v %q", m.Position, m.Kind, m.Language, preview(m.Body))
		}
	}

	resolver := rst.NewResolver(src)
	tagged := make(map[*html.Node]struct{})
	for i, block := range cascadia.QueryAll(root, sel) {
		if hasAncestorIn(block, tagged) {
			continue
		}
		tagged[block] = struct{}{}

		text := textContent(block)
		lang := resolver.Resolve(text)
		if err := a.tag(block, lang, text); err != nil {
			return "", errtrace.Wrap(err)
		}

		if a.DebugLog != nil {
			a.DebugLog.Printf("code block %d: %v %q", i, lang, preview(text))
		}
	}

	var sb strings.Builder
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&sb, n); err != nil {
			return "", errtrace.Wrap(err)
		}
	}
	return sb.String(), nil
}

func (a *Annotator) tag(block *html.Node, lang, text string) error {
	class := "language-" + lang

	code := &html.Node{
		Type:     html.ElementNode,
		Data:     "code",
		DataAtom: atom.Code,
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
	if err := a.fillCode(code, lang, text); err != nil {
		return err
	}

	for c := block.FirstChild; c != nil; c = block.FirstChild {
		block.RemoveChild(c)
	}
	block.AppendChild(code)

	pre := block
	if block.DataAtom != atom.Pre {
		pre = &html.Node{
			Type:     html.ElementNode,
			Data:     "pre",
			DataAtom: atom.Pre,
		}
		if parent := block.Parent; parent != nil {
			parent.InsertBefore(pre, block)
			parent.RemoveChild(block)
		}
		pre.AppendChild(block)
	}

	setAttr(pre, "class", class)
	if a.Highlighter != nil {
		key, val := a.Highlighter.PreAttr()
		if key == "class" {
			val = class + " " + val
		}
		setAttr(pre, key, val)
	}
	return nil
}

func (a *Annotator) fillCode(code *html.Node, lang, text string) error {
	if a.Highlighter == nil {
		code.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		return nil
	}

	hcode, err := highlight.Build(lang, []byte(text))
	if err != nil && !errors.Is(err, highlight.ErrNoLexer) && a.DebugLog != nil {
		a.DebugLog.Printf("highlight %v: %v", lang, err)
	}

	nodes, err := html.ParseFragment(strings.NewReader(a.Highlighter.Highlight(hcode)), code)
	if err != nil {
		return errtrace.Wrap(err)
	}
	for _, n := range nodes {
		code.AppendChild(n)
	}
	return nil
}

func hasAncestorIn(n *html.Node, set map[*html.Node]struct{}) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Key == key && attr.Namespace == "" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// textContent returns the text inside n,
// the same as the DOM's Node.textContent.
func textContent(n *html.Node) string {
	var (
		sb    strings.Builder
		visit func(*html.Node)
	)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

const _previewLen = 50

func preview(s string) string {
	if len(s) > _previewLen {
		s = s[:_previewLen]
	}
	return s
}
