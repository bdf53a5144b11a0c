package highlight

import chroma "github.com/alecthomas/chroma/v2"

// Code is a code block comprised of multiple text nodes.
type Code struct {
	// Language the code was lexed as,
	// or empty if it was not lexed.
	Language string

	Spans []Span
}

type (
	// Span is a part of a code block.
	Span interface{ span() }

	// TextSpan is a span rendered as-is.
	TextSpan struct {
		Text []byte
	}

	// TokenSpan is a span of code
	// that is highlighted with chroma.
	TokenSpan struct {
		Tokens []chroma.Token
	}
)

var (
	_ Span = (*TextSpan)(nil)
	_ Span = (*TokenSpan)(nil)
)

func (*TextSpan) span()  {}
func (*TokenSpan) span() {}
