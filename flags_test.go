package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/rstview/internal/iotest"
)

func defaultParams() params {
	return params{
		Root:      ".",
		OutputDir: "_site",
		Selector:  ".code",
		Highlight: "classes",
		Style:     "plain",
		Compiler:  "rst2html",
		Delay:     100 * time.Millisecond,
	}
}

func TestCLIParser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give []string
		want func(*params)
	}{
		{
			desc: "minimal",
			give: []string{"*.rst"},
			want: func(p *params) {
				p.Patterns = []string{"*.rst"}
			},
		},
		{
			desc: "many arguments",
			give: []string{
				"-debug=log.txt",
				"-root", "docs",
				"-out", "build/site",
				"-embed",
				"-compiler", "native",
				"-selector", "pre.literal-block",
				"-highlight=inline",
				"-style", "github",
				"-delay", "1s",
				"-db", "pages.db",
				"-disable", "https://example.com/readme.rst",
				"-disable", "file:///tmp/readme.rst",
				"-enable", "https://other.com",
				"**/*.rst",
				"README.rst",
			},
			want: func(p *params) {
				p.Debug = "log.txt"
				p.Root = "docs"
				p.OutputDir = "build/site"
				p.Embedded = true
				p.Compiler = "native"
				p.Selector = "pre.literal-block"
				p.Highlight = "inline"
				p.Style = "github"
				p.Delay = time.Second
				p.DB = "pages.db"
				p.Disable = []pageURL{"https://example.com/readme.rst", "file:///tmp/readme.rst"}
				p.Enable = []pageURL{"https://other.com"}
				p.Patterns = []string{"**/*.rst", "README.rst"}
			},
		},
		{
			desc: "serve",
			give: []string{"-http", ":8080", "-debug"},
			want: func(p *params) {
				p.HTTP = ":8080"
				p.Debug = "-"
				p.Patterns = []string{}
			},
		},
		{
			desc: "serve with origins",
			give: []string{
				"-http", ":8080",
				"-allow-origin", "http://localhost:3000/",
				"-allow-origin=https://docs.example.com https://example.org",
			},
			want: func(p *params) {
				p.HTTP = ":8080"
				p.AllowOrigins = []origin{
					"http://localhost:3000",
					"https://docs.example.com",
					"https://example.org",
				}
				p.Patterns = []string{}
			},
		},
		{
			desc: "any origin",
			give: []string{"-http", ":8080", "-allow-origin", "*"},
			want: func(p *params) {
				p.HTTP = ":8080"
				p.AllowOrigins = []origin{"*"}
				p.Patterns = []string{}
			},
		},
		{
			desc: "pages only",
			give: []string{"-disable", "https://example.com"},
			want: func(p *params) {
				p.Disable = []pageURL{"https://example.com"}
				p.Patterns = []string{}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			got, err := (&cliParser{
				Stdout: iotest.Writer(t),
				Stderr: iotest.Writer(t),
			}).Parse(tt.give)
			require.NoError(t, err)

			want := defaultParams()
			tt.want(&want)
			assert.Equal(t, want, *got)
		})
	}
}

func TestCLIParser_configFile(t *testing.T) {
	t.Parallel()

	config := filepath.Join(t.TempDir(), "rstview.conf")
	require.NoError(t, os.WriteFile(config, []byte(
		"# rstview.conf\n"+
			"out build/site\n"+
			"compiler native\n"+
			"highlight none\n",
	), 0o644))

	got, err := (&cliParser{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Parse([]string{"-config", config, "-out", "public", "*.rst"})
	require.NoError(t, err)

	want := defaultParams()
	want.Config = config
	want.OutputDir = "public" // flags win over the file
	want.Compiler = "native"
	want.Highlight = "none"
	want.Patterns = []string{"*.rst"}
	assert.Equal(t, want, *got)
}

// Not parallel: modifies the environment.
func TestCLIParser_env(t *testing.T) {
	t.Setenv("RSTVIEW_OUT", "from-env")
	t.Setenv("RSTVIEW_RST2HTML", "/opt/docutils/rst2html.py")
	t.Setenv("RSTVIEW_STYLE", "monokai")
	t.Setenv("RSTVIEW_DISABLE", "example.com https://other.com/readme.rst")

	t.Run("enabled", func(t *testing.T) {
		got, err := (&cliParser{
			Stdout: iotest.Writer(t),
			Stderr: iotest.Writer(t),
			Env:    true,
		}).Parse([]string{"-style", "github", "*.rst"})
		require.NoError(t, err)

		assert.Equal(t, "from-env", got.OutputDir)
		assert.Equal(t, "/opt/docutils/rst2html.py", got.RST2HTML)
		assert.Equal(t, "github", got.Style, "flags win over the environment")
		assert.Equal(t, []pageURL{"example.com", "https://other.com/readme.rst"}, got.Disable)
	})

	t.Run("disabled", func(t *testing.T) {
		got, err := (&cliParser{
			Stdout: iotest.Writer(t),
			Stderr: iotest.Writer(t),
		}).Parse([]string{"*.rst"})
		require.NoError(t, err)

		assert.Equal(t, "_site", got.OutputDir)
		assert.Empty(t, got.RST2HTML)
		assert.Empty(t, got.Disable)
	})
}

func TestCLIParser_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc    string
		give    []string
		wantErr string
	}{
		{
			desc:    "no patterns",
			wantErr: "Please provide at least one pattern.",
		},
		{
			desc:    "unknown compiler",
			give:    []string{"-compiler", "pandoc", "*.rst"},
			wantErr: `unknown compiler "pandoc"`,
		},
		{
			desc:    "unknown highlight mode",
			give:    []string{"-highlight", "rainbow", "*.rst"},
			wantErr: `unknown mode "rainbow"`,
		},
		{
			desc:    "bad page URL",
			give:    []string{"-disable", "http://[::1"},
			wantErr: "bad page URL",
		},
		{
			desc:    "bad origin",
			give:    []string{"-http", ":8080", "-allow-origin", "localhost:3000"},
			wantErr: `bad origin "localhost:3000"`,
		},
		{
			desc:    "origin with path",
			give:    []string{"-http", ":8080", "-allow-origin", "https://example.com/docs"},
			wantErr: "expected scheme://host[:port]",
		},
		{
			desc:    "missing config file",
			give:    []string{"-config", "does-not-exist.conf", "*.rst"},
			wantErr: "does-not-exist.conf",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			_, err := (&cliParser{
				Stdout: iotest.Writer(t),
				Stderr: &stderr,
			}).Parse(tt.give)
			require.Error(t, err)
			assert.Contains(t, stderr.String(), tt.wantErr)
		})
	}
}

func TestCLIParser_help(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give []string
		want string
	}{
		{desc: "default", give: []string{"-h"}, want: _defaultHelp},
		{desc: "long", give: []string{"-help"}, want: _defaultHelp},
		{desc: "topic", give: []string{"-help=pages"}, want: _pagesHelp},
		{desc: "topic argument", give: []string{"-h", "config"}, want: _configHelp},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			_, err := (&cliParser{
				Stdout: iotest.Writer(t),
				Stderr: &stderr,
			}).Parse(tt.give)
			assert.ErrorIs(t, err, errHelp)
			assert.Equal(t, tt.want, stderr.String())
		})
	}

	t.Run("unknown topic", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		_, err := (&cliParser{
			Stdout: iotest.Writer(t),
			Stderr: &stderr,
		}).Parse([]string{"-help=nope"})
		assert.ErrorIs(t, err, errHelp)
		assert.Contains(t, stderr.String(), `unknown help topic "nope"`)
	})
}

func TestCLIParser_version(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	_, err := (&cliParser{
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}).Parse([]string{"-version"})
	assert.ErrorIs(t, err, errHelp)
	assert.Equal(t, "rstview "+_version+"\n", stdout.String())
}
