package rst2html

import (
	"context"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/rstview/internal/html"
	nethtml "golang.org/x/net/html"
)

func TestNative_Compile(t *testing.T) {
	t.Parallel()

	res, err := new(Native).Compile(context.Background(), "Hello *world*.\n")
	require.NoError(t, err)
	assert.Contains(t, res.Body, "world")
	assert.Empty(t, res.Header)
}

func TestNative_Compile_codeBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want []string // language of every code block, in order
	}{
		{
			desc: "code-block",
			give: ".. code-block:: python\n\n   print(1)\n",
			want: []string{"python"},
		},
		{
			desc: "code with options",
			give: ".. code:: go\n   :number-lines:\n\n   fmt.Println()\n",
			want: []string{"go"},
		},
		{
			desc: "literal",
			give: "Example::\n\n    x = 1\n",
			want: []string{"none"},
		},
		{
			desc: "mixed",
			give: ".. code-block:: python\n\n   print(1)\n\nExample::\n\n    x = 1\n",
			want: []string{"python", "none"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			res, err := new(Native).Compile(context.Background(), tt.give)
			require.NoError(t, err)

			body, err := new(html.Annotator).Annotate(tt.give, res.Body)
			require.NoError(t, err)

			var got []string
			for _, pre := range cascadia.QueryAll(parseBody(t, body), cascadia.MustCompile("pre")) {
				got = append(got, attr(pre, "class"))
			}
			want := make([]string, len(tt.want))
			for i, lang := range tt.want {
				want[i] = "language-" + lang
			}
			assert.Equal(t, want, got, "body:\n%s", body)
		})
	}
}

func TestAddPreClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want string
	}{
		{
			desc: "no class",
			give: "<pre><code>x</code></pre>",
			want: `<pre class="code"><code>x</code></pre>`,
		},
		{
			desc: "existing class",
			give: `<p>a</p><pre class="python"><code>x</code></pre>`,
			want: `<p>a</p><pre class="code python"><code>x</code></pre>`,
		},
		{
			desc: "already tagged",
			give: `<pre class="code literal-block">x</pre>`,
			want: `<pre class="code literal-block">x</pre>`,
		},
		{
			desc: "nested",
			give: `<blockquote><pre>x</pre></blockquote>`,
			want: `<blockquote><pre class="code">x</pre></blockquote>`,
		},
		{
			desc: "none",
			give: "<p>hello</p>",
			want: "<p>hello</p>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			got, err := addPreClass(tt.give, CodeClass)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func parseBody(t *testing.T, body string) *nethtml.Node {
	t.Helper()

	doc, err := nethtml.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
