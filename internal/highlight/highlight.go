package highlight

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	chroma "github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
)

// Highlighter turns [Code] into HTML.
type Highlighter struct {
	// Style used for syntax highlighting of code.
	Style *chroma.Style

	// UseClasses specifies whether the highlighter
	// uses inline 'style' attributes for highlighting,
	// or classes, assumign use of an appropriate style sheet.
	UseClasses bool

	once      sync.Once
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

func (h *Highlighter) init() {
	h.once.Do(func() {
		h.formatter = chromahtml.New(
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithClasses(h.UseClasses),
		)
		h.style = h.Style
		if h.style == nil {
			h.style = PlainStyle
		}
	})
}

// WriteCSS writes the style classes for this highlighter to writer.
// If this highlighter is not using classes, WriteCSS is a no-op.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	h.init()

	if !h.UseClasses {
		return nil
	}

	return h.formatter.WriteCSS(w, h.style)
}

// PreAttr returns the attribute that should be set
// on the <pre> element wrapping highlighted code.
func (h *Highlighter) PreAttr() (key, val string) {
	h.init()

	if h.UseClasses {
		return "class", chroma.StandardTypes[chroma.PreWrapper]
	}
	return "style", chromahtml.StyleEntryToCSS(h.style.Get(chroma.PreWrapper))
}

// Highlight renders the given code block into HTML.
//
// The output does not include a surrounding <pre>;
// it's meant to be placed inside a <code> element.
func (h *Highlighter) Highlight(code *Code) string {
	h.init()

	if code == nil {
		return ""
	}

	r := codeRenderer{fmt: h.formatter, sty: h.style}
	r.RenderSpans(code.Spans)
	return r.String()
}

type codeRenderer struct {
	bytes.Buffer

	fmt chroma.Formatter
	sty *chroma.Style
}

func (r *codeRenderer) RenderSpans(spans []Span) {
	for _, span := range spans {
		r.RenderSpan(span)
	}
}

func (r *codeRenderer) RenderSpan(span Span) {
	switch b := span.(type) {
	case *TokenSpan:
		r.fmt.Format(r, r.sty, chroma.Literator(b.Tokens...))
	case *TextSpan:
		template.HTMLEscape(r, b.Text)
	default:
		panic(fmt.Sprintf("unrecognized node type %T", b))
	}
}
