package rst

import (
	"regexp"
	"strings"
)

// normalize converts line endings to "\n"
// and makes sure that non-empty text ends with a newline
// so that a block at the very end of a document is still matched.
func normalize(s string) string {
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	if len(s) > 0 && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// dedent strips exactly n leading columns from every line
// that is indented by at least n spaces or tabs.
// Lines with less indentation are left as-is.
func dedent(s string, n int) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	sb.Grow(len(s))
	for _, line := range lines {
		if indentOf(line) >= n {
			line = line[n:]
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// indentOf reports the number of leading spaces and tabs in line.
func indentOf(line string) int {
	for i := 0; i < len(line); i++ {
		if c := line[i]; c != ' ' && c != '\t' {
			return i
		}
	}
	return len(line)
}

// _optionRegexp matches a directive option line, e.g. ":linenos:".
var _optionRegexp = regexp.MustCompile(`^[ \t]*:[A-Za-z][\w-]*:`)

// stripOptions drops directive options from the start of a de-indented body.
// Options must immediately follow the directive line,
// so only a leading run of option lines is removed.
func stripOptions(body string) string {
	rest := body
	for len(rest) > 0 {
		line, tail, _ := strings.Cut(rest, "\n")
		if !_optionRegexp.MatchString(line) {
			break
		}
		rest = tail
	}
	return rest
}

// collapseSpace replaces every run of whitespace with a single space
// and trims the result.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sameContent reports whether a directive body and compiled block text
// hold the same code.
//
// The texts match if they're equal after trimming,
// or if they're equal after collapsing whitespace
// to tolerate reflowing done by the compiler.
func sameContent(body, compiled string) bool {
	body = strings.TrimSpace(body)
	compiled = strings.TrimSpace(compiled)
	if body == compiled {
		return true
	}
	return collapseSpace(body) == collapseSpace(compiled)
}
