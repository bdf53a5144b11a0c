package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/rstview/internal/iotest"
	"go.abhg.dev/rstview/internal/pagelist"
	"go.abhg.dev/rstview/internal/viewer"
)

func TestMainCmd_help(t *testing.T) {
	t.Parallel()

	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"-h"})
	assert.Zero(t, exitCode, "-h should have zero status code")
}

func TestMainCmd_version(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-version"})
	assert.Zero(t, exitCode, "-version should have zero status code")

	assert.Contains(t, buff.String(), "rstview")
	assert.Contains(t, buff.String(), _version)
}

func TestMainCmd_unknownFlag(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &buff,
	}).Run([]string{"--this-flag-does-not-exist"})
	assert.NotZero(t, exitCode, "unknown flag should have non-zero status code")
	assert.Contains(t, buff.String(), "this-flag-does-not-exist")
}

func TestMainCmd_badSelector(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &buff,
	}).Run([]string{"-selector", "pre[", "-root", t.TempDir(), "*.rst"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, buff.String(), "-selector")
}

func TestMainCmd_badStyle(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &buff,
	}).Run([]string{"-style", "not-a-style", "-root", t.TempDir(), "*.rst"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, buff.String(), `unknown style "not-a-style"`)
}

func TestMainCmd_noMatches(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &buff,
	}).Run([]string{"-root", t.TempDir(), "-compiler", "native", "**/*.rst"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, buff.String(), "no files match")
}

const _readme = `Hello *world*.

.. code-block:: python
   :linenos:

   print(1)

Example::

    x = 1
`

func TestMainCmd_render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc       string
		flags      []string
		wantStatic bool
	}{
		{desc: "default", wantStatic: true},
		{desc: "inline highlighting", flags: []string{"-highlight", "inline"}, wantStatic: true},
		{desc: "embed", flags: []string{"-embed"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
			require.NoError(t, os.WriteFile(
				filepath.Join(root, "docs", "readme.rst"),
				[]byte(_readme), 0o644))
			require.NoError(t, os.WriteFile(
				filepath.Join(root, "notes.txt"),
				[]byte("not matched\n"), 0o644))

			outDir := t.TempDir()
			args := append(tt.flags,
				"-root", root,
				"-out", outDir,
				"-compiler", "native",
				"-debug",
				"**/*.rst",
			)
			exitCode := (&mainCmd{
				Stdout: iotest.Writer(t),
				Stderr: iotest.Writer(t),
			}).Run(args)
			require.Zero(t, exitCode, "expected success")

			body, err := os.ReadFile(filepath.Join(outDir, "docs", "readme.html"))
			require.NoError(t, err)
			assert.Contains(t, string(body), "world")
			assert.Contains(t, string(body), `<code class="language-python">`)
			assert.Contains(t, string(body), `<code class="language-none">`)
			assert.NotContains(t, string(body), "code-block",
				"directive must not leak into the page")
			assert.Contains(t, string(body), `<main class="rst-document">`)

			assert.NoFileExists(t, filepath.Join(outDir, "notes.html"))

			mainCSS := filepath.Join(outDir, "_", "css", "main.css")
			if tt.wantStatic {
				assert.FileExists(t, mainCSS)
				assert.Contains(t, string(body), `href="../_/css/main.css"`)
			} else {
				assert.NoFileExists(t, mainCSS)
				assert.NotContains(t, string(body), "<html>")
			}
		})
	}
}

func TestMainCmd_pages(t *testing.T) {
	t.Parallel()

	db := filepath.Join(t.TempDir(), "pages.db")
	run := func(t *testing.T, args ...string) {
		t.Helper()

		exitCode := (&mainCmd{
			Stdout: iotest.Writer(t),
			Stderr: iotest.Writer(t),
		}).Run(append([]string{"-db", db}, args...))
		require.Zero(t, exitCode, "expected success")
	}

	run(t,
		"-disable", "https://example.com/readme.rst",
		"-disable", "https://other.com/readme.rst",
	)
	run(t, "-enable", "https://other.com/guide.rst")

	store, err := pagelist.Open(db)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, store.Close())
	}()

	entries, err := store.DisabledPages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, entries)
}

func TestMainCmd_disabledPage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "readme.rst"),
		[]byte("Hello *world*.\n"), 0o644))

	outDir := t.TempDir()
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{
		"-disable", "file:///readme.rst",
		"-root", root,
		"-out", outDir,
		"-compiler", "native",
		"readme.rst",
	})
	require.Zero(t, exitCode, "expected success")

	// Local files are disabled as a group.
	assert.NoFileExists(t, filepath.Join(outDir, "readme.html"))
}

func TestViewerDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give time.Duration
		want time.Duration
	}{
		{give: 0, want: -1},
		{give: -time.Second, want: -1},
		{give: time.Millisecond, want: time.Millisecond},
		{give: viewer.DefaultDelay, want: viewer.DefaultDelay},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, viewerDelay(tt.give), "viewerDelay(%v)", tt.give)
	}
}
