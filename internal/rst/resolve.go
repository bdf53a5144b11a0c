package rst

// Resolver recovers the language of compiled code blocks
// by matching their text against directives in the RST source.
//
// Only ".. code-block::", ".. code::", ".. sourcecode::", and
// ".. raw:: html" carry languages.
// These are checked in that order,
// and within each form, in document order.
// The first directive with matching contents wins.
//
// If the same code appears under two different forms,
// the form checked first wins regardless of which one
// actually produced the compiled block.
type Resolver struct {
	// Candidates in the order they should be checked.
	candidates []DirectiveMatch
}

// NewResolver builds a Resolver for the given RST source.
// The source should be the original text, before [Preprocess].
func NewResolver(src string) *Resolver {
	src = normalize(src)

	var candidates []DirectiveMatch
	for _, p := range _resolvePatterns {
		candidates = append(candidates, p.findAll(src)...)
	}
	return &Resolver{candidates: candidates}
}

// Resolve returns the language of the directive
// whose contents match the given compiled code block text,
// or [None] if no directive matches.
func (r *Resolver) Resolve(compiled string) string {
	if m, ok := r.Lookup(compiled); ok {
		return m.Language
	}
	return None
}

// Lookup returns the directive whose contents match
// the given compiled code block text.
// It reports false if there isn't one.
func (r *Resolver) Lookup(compiled string) (DirectiveMatch, bool) {
	for _, m := range r.candidates {
		if sameContent(m.Body, compiled) {
			return m, true
		}
	}
	return DirectiveMatch{}, false
}

// ResolveLanguage returns the language of the code block in src
// whose contents match the compiled code block text,
// or [None] if there isn't one.
//
// Use [NewResolver] when resolving multiple blocks of the same document.
func ResolveLanguage(src, compiled string) string {
	return NewResolver(src).Resolve(compiled)
}
