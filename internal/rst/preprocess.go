package rst

import "regexp"

// rewrite is a textual substitution applied by Preprocess.
type rewrite struct {
	re   *regexp.Regexp
	repl string // expanded with Regexp.ReplaceAllString
}

// Rewrites applied by Preprocess, in order.
var _rewrites = []rewrite{
	// :ref:`label <target>` and :ref:`target`
	{regexp.MustCompile(":ref:`([^<`]+?)[ \\t]*<[^>]*>`"), `"${1}"`},
	{regexp.MustCompile(":ref:`([^`]+)`"), `"${1}"`},

	// :doc:`title <path>` and :doc:`path`
	{regexp.MustCompile(":doc:`([^<`]+?)[ \\t]*<[^>]*>`"), `"${1}"`},
	{regexp.MustCompile(":doc:`([^`]+)`"), `"${1}"`},

	// External files can't be resolved for a single document.
	{regexp.MustCompile(`\.\.[ \t]+include::[^\n]*`), ""},
	{regexp.MustCompile(`\.\.[ \t]+literalinclude::[^\n]*`), ""},

	{regexp.MustCompile(`\.\.[ \t]+sourcecode::`), ".. code-block::"},
	{regexp.MustCompile(`\.\.[ \t]+parsed-literal::`), "::"},

	// Show raw HTML as highlighted source instead of injecting it.
	{
		regexp.MustCompile(`\.\.[ \t]+raw::[ \t]*html[ \t]*\n` + _body4),
		".. code-block:: html\n\n${1}",
	},

	{regexp.MustCompile(`\.\.[ \t]+epigraph::[ \t]*\n` + _body4), ""},
}

// Preprocess rewrites an RST document
// into a form better suited to compilation as a standalone page.
//
//   - :ref: and :doc: roles become their quoted label text
//   - include and literalinclude directives are dropped
//   - sourcecode directives become code-block directives
//   - parsed-literal directives become plain literal blocks
//   - raw HTML blocks become html code-block directives
//   - epigraph directives are dropped
//
// Language recovery must use the original text, not the output of this.
// [Extract] and [Resolver] still understand sourcecode directives.
func Preprocess(src string) string {
	src = normalize(src)
	for _, rw := range _rewrites {
		src = rw.re.ReplaceAllString(src, rw.repl)
	}
	return src
}
