package highlight

import (
	"errors"
	"strings"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ErrNoLexer indicates that a language is not known to the highlighter.
var ErrNoLexer = errors.New("no lexer for language")

// Language name used by RST sources for code without a language.
const _noLanguage = "none"

// Lexer analyzes source code and generates a stream of tokens.
type Lexer interface {
	Lex(src []byte) ([]chroma.Token, error)
}

// chromaLexer builds a [Lexer] from a Chroma lexer.
type chromaLexer struct{ l chroma.Lexer }

// Lex lexically analyzes the given source code using Chroma.
func (cl *chromaLexer) Lex(src []byte) ([]chroma.Token, error) {
	return errtrace.Wrap2(chroma.Tokenise(cl.l, nil, string(src)))
}

// LexerFor returns a [Lexer] for the named language.
// Names are matched against Chroma's lexer names and aliases,
// case-insensitively.
//
// It reports false if Chroma doesn't know the language.
func LexerFor(lang string) (Lexer, bool) {
	if len(lang) == 0 || strings.EqualFold(lang, _noLanguage) {
		return nil, false
	}
	l := lexers.Get(lang)
	if l == nil {
		return nil, false
	}
	return &chromaLexer{l: chroma.Coalesce(l)}, true
}

// Build builds a [Code] holding src lexed as the given language.
//
// If there's no lexer for the language,
// the returned Code holds src as plain text
// and the error matches [ErrNoLexer].
// If lexing fails, the returned Code also holds plain text.
func Build(lang string, src []byte) (*Code, error) {
	plain := &Code{Spans: []Span{&TextSpan{Text: src}}}

	lexer, ok := LexerFor(lang)
	if !ok {
		return plain, errtrace.Wrap(ErrNoLexer)
	}

	tokens, err := lexer.Lex(src)
	if err != nil {
		return plain, errtrace.Wrap(err)
	}

	return &Code{
		Language: lang,
		Spans:    []Span{&TokenSpan{Tokens: tokens}},
	}, nil
}
