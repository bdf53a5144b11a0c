package rst

import (
	"regexp"
	"strings"
)

// None is the language reported for code
// that does not declare a language.
const None = "none"

// Kind identifies the form of RST markup that introduced a code block.
type Kind string

// Kinds of code-carrying directives, ordered from most to least specific.
const (
	// CodeBlock is the ".. code-block:: lang" directive.
	CodeBlock Kind = "code-block"

	// Code is the ".. code:: lang" directive.
	Code Kind = "code"

	// SourceCode is the ".. sourcecode:: lang" directive.
	SourceCode Kind = "sourcecode"

	// Highlight is a ".. highlight:: lang" directive
	// followed by the literal block it applies to.
	Highlight Kind = "highlight"

	// ParsedLiteral is the ".. parsed-literal::" directive.
	ParsedLiteral Kind = "parsed-literal"

	// Literal is a literal block introduced by a trailing "::".
	Literal Kind = "literal"

	// RawHTML is the ".. raw:: html" passthrough.
	// It's only considered when resolving languages.
	RawHTML Kind = "raw-html"
)

// Kinds lists the kinds reported by [Extract] in priority order.
var Kinds = []Kind{CodeBlock, Code, SourceCode, Highlight, ParsedLiteral, Literal}

func (k Kind) String() string { return string(k) }

// DirectiveMatch is a code block found in an RST document.
type DirectiveMatch struct {
	// Kind of directive that introduced the block.
	Kind Kind

	// Language named by the directive, or [None].
	Language string

	// Body is the de-indented contents of the block
	// with surrounding blank space removed.
	Body string

	// Position is the byte offset in the source
	// at which the directive starts.
	//
	// It's only meaningful for ordering matches against each other.
	Position int
}

// Body of an indented block: blank lines, or lines indented 3+ columns.
const (
	_body3 = `((?:[ \t]*\n|[ \t]{3,}.*\n)*)`
	_body4 = `((?:[ \t]*\n|[ \t]{4,}.*\n)*)`
)

func directiveRegexp(name string) *regexp.Regexp {
	return regexp.MustCompile(`\.\.[ \t]+` + regexp.QuoteMeta(name) + `::[ \t]*([^\n]*)\n` + _body3)
}

// pattern matches one form of code block.
type pattern struct {
	kind Kind
	re   *regexp.Regexp

	// Submatch holding the language argument, or 0 if the form has none.
	langGroup int

	// Submatch holding the indented body.
	bodyGroup int

	// Number of columns stripped from each body line.
	indent int

	// Language to report instead of the argument, if non-empty.
	fixedLang string
}

var (
	_codeBlockPattern = &pattern{
		kind:      CodeBlock,
		re:        directiveRegexp("code-block"),
		langGroup: 1,
		bodyGroup: 2,
		indent:    3,
	}
	_codePattern = &pattern{
		kind:      Code,
		re:        directiveRegexp("code"),
		langGroup: 1,
		bodyGroup: 2,
		indent:    3,
	}
	_sourceCodePattern = &pattern{
		kind:      SourceCode,
		re:        directiveRegexp("sourcecode"),
		langGroup: 1,
		bodyGroup: 2,
		indent:    3,
	}
	_highlightPattern = &pattern{
		kind: Highlight,
		// The language applies to the next literal block,
		// however far away it is.
		re:        regexp.MustCompile(`\.\.[ \t]+highlight::[ \t]*([^\n]*)\n(?s:.*?)::[ \t]*\n` + _body3),
		langGroup: 1,
		bodyGroup: 2,
		indent:    3,
	}
	_parsedLiteralPattern = &pattern{
		kind:      ParsedLiteral,
		re:        regexp.MustCompile(`\.\.[ \t]+parsed-literal::[ \t]*\n` + _body3),
		bodyGroup: 1,
		indent:    3,
		fixedLang: None,
	}
	_literalPattern = &pattern{
		kind:      Literal,
		re:        regexp.MustCompile(`::[ \t]*\n` + _body4),
		bodyGroup: 1,
		indent:    4,
		fixedLang: None,
	}
	_rawHTMLPattern = &pattern{
		kind:      RawHTML,
		re:        regexp.MustCompile(`\.\.[ \t]+raw::[ \t]*html[ \t]*\n` + _body3),
		bodyGroup: 1,
		indent:    3,
		fixedLang: "html",
	}
)

// Patterns used by Extract, in priority order.
// Literal must stay last: it matches the tail of every other form.
var _extractPatterns = []*pattern{
	_codeBlockPattern,
	_codePattern,
	_sourceCodePattern,
	_highlightPattern,
	_parsedLiteralPattern,
	_literalPattern,
}

// Patterns used to resolve languages, in priority order.
var _resolvePatterns = []*pattern{
	_codeBlockPattern,
	_codePattern,
	_sourceCodePattern,
	_rawHTMLPattern,
}

// findAll reports all non-overlapping matches of this pattern in src.
// src must already be normalized.
func (p *pattern) findAll(src string) []DirectiveMatch {
	var matches []DirectiveMatch
	for _, idx := range p.re.FindAllStringSubmatchIndex(src, -1) {
		matches = append(matches, p.match(src, idx))
	}
	return matches
}

func (p *pattern) match(src string, idx []int) DirectiveMatch {
	group := func(n int) string {
		start, end := idx[2*n], idx[2*n+1]
		if start < 0 {
			return ""
		}
		return src[start:end]
	}

	lang := p.fixedLang
	if len(lang) == 0 {
		lang = strings.TrimSpace(group(p.langGroup))
		if len(lang) == 0 {
			lang = None
		}
	}

	body := dedent(group(p.bodyGroup), p.indent)
	if p.langGroup > 0 {
		body = stripOptions(body)
	}

	return DirectiveMatch{
		Kind:     p.kind,
		Language: lang,
		Body:     strings.TrimSpace(body),
		Position: idx[0],
	}
}
