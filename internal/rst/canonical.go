package rst

import "strings"

// _canonicalIndent is the body indentation written by [Canonicalize].
const _canonicalIndent = "    "

// Canonicalize rewrites code, code-block, and sourcecode directives
// into a single strict form:
//
//	.. code-block:: LANG
//
//	    body
//
// The body is re-indented by four spaces,
// directive options are dropped,
// and directives without a language get [None].
//
// Compilers with a limited RST grammar only recognize this form.
// Like [Preprocess], the output must not be used for language recovery.
func Canonicalize(src string) string {
	src = normalize(src)
	for _, p := range []*pattern{_codeBlockPattern, _codePattern, _sourceCodePattern} {
		src = p.rewrite(src, canonicalBlock)
	}
	return src
}

func canonicalBlock(lang, body string) string {
	body = trimBlankLines(stripOptions(reindent(body)))
	if len(body) == 0 {
		// Nothing for the directive to hold.
		// Keep a blank line so the next paragraph stays separate.
		return "\n"
	}

	var sb strings.Builder
	sb.WriteString(".. code-block:: ")
	sb.WriteString(lang)
	sb.WriteString("\n\n")
	for _, line := range strings.SplitAfter(body, "\n") {
		if len(strings.TrimSpace(line)) > 0 {
			sb.WriteString(_canonicalIndent)
			sb.WriteString(line)
		} else {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n\n")
	return sb.String()
}

// trimBlankLines drops leading and trailing lines
// that hold only spaces and tabs,
// keeping the indentation of the first non-blank line.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && len(strings.TrimSpace(lines[0])) == 0 {
		lines = lines[1:]
	}
	for len(lines) > 0 && len(strings.TrimSpace(lines[len(lines)-1])) == 0 {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// reindent strips the indentation shared by all non-blank lines of s.
func reindent(s string) string {
	shared := -1
	for _, line := range strings.Split(s, "\n") {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if n := indentOf(line); shared < 0 || n < shared {
			shared = n
		}
	}
	if shared <= 0 {
		return s
	}
	return dedent(s, shared)
}

// rewrite replaces every match of this pattern in src
// with fn called on the language and the raw indented body.
// src must already be normalized.
func (p *pattern) rewrite(src string, fn func(lang, body string) string) string {
	idxs := p.re.FindAllStringSubmatchIndex(src, -1)
	if len(idxs) == 0 {
		return src
	}

	var sb strings.Builder
	sb.Grow(len(src))
	last := 0
	for _, idx := range idxs {
		m := p.match(src, idx)
		start, end := idx[2*p.bodyGroup], idx[2*p.bodyGroup+1]

		sb.WriteString(src[last:idx[0]])
		sb.WriteString(fn(m.Language, src[start:end]))
		last = idx[1]
	}
	sb.WriteString(src[last:])
	return sb.String()
}
