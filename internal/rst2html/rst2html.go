// Package rst2html compiles reStructuredText documents into HTML.
//
// Two compilers are provided:
// [CLI] runs the docutils rst2html program,
// and [Native] compiles in-process.
// Both produce a [Result].
package rst2html

import (
	"io"
	"strings"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Result is the output of compiling a document.
type Result struct {
	// Body is the HTML for the document's contents.
	Body string

	// Header is HTML that should be placed inside <head>,
	// e.g. stylesheets that the body relies on.
	// It may be empty.
	Header string
}

var (
	_bodySelector   = cascadia.MustCompile("body")
	_headerSelector = cascadia.MustCompile(`head style, head link[rel~="stylesheet"]`)
)

// Split splits a complete HTML document into a [Result].
//
// The body holds everything inside <body>.
// The header holds the <style> and stylesheet <link> elements
// found inside <head>.
func Split(r io.Reader) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var res Result
	if body := _bodySelector.MatchFirst(doc); body != nil {
		var sb strings.Builder
		for n := body.FirstChild; n != nil; n = n.NextSibling {
			if err := html.Render(&sb, n); err != nil {
				return nil, errtrace.Wrap(err)
			}
		}
		res.Body = sb.String()
	}

	var sb strings.Builder
	for _, n := range cascadia.QueryAll(doc, _headerSelector) {
		if err := html.Render(&sb, n); err != nil {
			return nil, errtrace.Wrap(err)
		}
		sb.WriteString("\n")
	}
	res.Header = sb.String()

	return &res, nil
}
