package rst2html

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	gorst "github.com/hhatto/gorst"
	"go.abhg.dev/rstview/internal/rst"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CodeClass is the class that both compilers put
// on the <pre> elements they emit for code blocks.
const CodeClass = "code"

// Native compiles RST documents in-process
// using the gorst parser.
//
// It supports a smaller subset of RST than [CLI]
// but requires no external programs.
// gorst only recognizes "code-block" directives
// whose bodies are indented by four columns,
// so sources are passed through [rst.Canonicalize] first.
//
// The zero value is ready to use.
type Native struct{}

// Compile compiles the given RST source into HTML.
// Every <pre> in the output carries [CodeClass]
// to match the output of docutils.
// The result never has a header.
func (*Native) Compile(_ context.Context, src string) (_ *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errtrace.Errorf("gorst: %v", r)
		}
	}()

	var buff bytes.Buffer
	w := bufio.NewWriter(&buff)
	gorst.NewParser(nil).ReStructuredText(strings.NewReader(rst.Canonicalize(src)), gorst.ToHTML(w))
	if err := w.Flush(); err != nil {
		return nil, errtrace.Wrap(err)
	}

	body, err := addPreClass(buff.String(), CodeClass)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Result{Body: body}, nil
}

var _preSelector = cascadia.MustCompile("pre")

// addPreClass adds class to every <pre> element in the HTML fragment body.
func addPreClass(body, class string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(body), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	// QueryAll doesn't match the node it's given,
	// so top-level elements need a parent.
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	for _, pre := range cascadia.QueryAll(root, _preSelector) {
		addClass(pre, class)
	}

	var sb strings.Builder
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&sb, n); err != nil {
			return "", errtrace.Wrap(err)
		}
	}
	return sb.String(), nil
}

func addClass(n *html.Node, class string) {
	for i, attr := range n.Attr {
		if attr.Key != "class" || attr.Namespace != "" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return
			}
		}
		n.Attr[i].Val = strings.TrimSpace(class + " " + attr.Val)
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}
