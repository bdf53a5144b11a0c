package rst

import "sort"

// Extract finds all code blocks in the given RST source
// and returns them in the order they appear in the document.
//
// Each directive form is matched independently over the whole text,
// so the same region may be reported more than once
// if it matches multiple forms.
// For example, a ".. highlight::" directive and the literal block
// it applies to are both reported.
func Extract(src string) []DirectiveMatch {
	src = normalize(src)

	var matches []DirectiveMatch
	for _, p := range _extractPatterns {
		for _, m := range p.findAll(src) {
			// A "::" with nothing indented after it
			// ends a directive line; it's not a literal block.
			if m.Kind == Literal && len(m.Body) == 0 {
				continue
			}
			matches = append(matches, m)
		}
	}

	// Matches are grouped by pattern at this point.
	// Stable sort keeps pattern priority for matches
	// that start at the same offset.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Position < matches[j].Position
	})
	return matches
}
