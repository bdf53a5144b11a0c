// Package html renders compiled RST documents as HTML pages.
//
// [Annotator] tags the code blocks of a compiled document with languages.
// [PageSink] presents a document, a loading placeholder, or an error panel
// with the templates held by a [Renderer].
package html

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"braces.dev/errtrace"
	"go.abhg.dev/rstview/internal/relative"
)

// StaticDir is the directory, relative to the site root,
// that holds static assets.
const StaticDir = "_"

var (
	//go:embed tmpl/*.html
	_tmplFS embed.FS

	//go:embed static/**
	_staticFS embed.FS

	// Trick borrowed from pkgsite:
	// Unusable function references at parse time,
	// and then Clone and replace at render time.
	// This way, template validity is still
	// verified at init.
	_pageTmpl = template.Must(
		template.New("page.html").
			Funcs((*render)(nil).FuncMap()).
			ParseFS(_tmplFS, "tmpl/page.html"),
	)
)

// Renderer renders pages into HTML.
type Renderer struct {
	// Path to the root of the generated site.
	// Static assets are served from StaticDir under this path.
	Home string

	// Whether we're in embedded mode.
	// In this mode, output will only contain the document
	// and will not generate complete, stylized HTML pages.
	Embedded bool

	// Highlighter whose CSS is included in the stylesheet.
	// Optional.
	Highlighter Highlighter
}

// Static returns the contents of a static asset.
// p is relative to the static directory, e.g. "css/main.css".
func (r *Renderer) Static(p string) ([]byte, error) {
	bs, err := fs.ReadFile(_staticFS, path.Join("static", p))
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	// Highlighting classes are part of the main stylesheet.
	if p == "css/main.css" && r.Highlighter != nil {
		buff := bytes.NewBuffer(bs)
		buff.WriteString("\n")
		if err := r.Highlighter.WriteCSS(buff); err != nil {
			return nil, errtrace.Wrap(err)
		}
		bs = buff.Bytes()
	}

	return bs, nil
}

// WriteStatic dumps the static assets into the given directory.
//
// This is a no-op if the renderer is running in embedded mode.
func (r *Renderer) WriteStatic(dir string) error {
	if r.Embedded {
		return nil
	}

	dir = filepath.Join(dir, StaticDir)
	static, err := fs.Sub(_staticFS, "static")
	if err != nil {
		return errtrace.Wrap(err)
	}
	return fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == "." {
			return err
		}

		outPath := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return errtrace.Wrap(os.MkdirAll(outPath, 0o1755))
		}

		bs, err := r.Static(path)
		if err != nil {
			return err
		}
		return errtrace.Wrap(os.WriteFile(outPath, bs, 0o644))
	})
}

// Page identifies a page being rendered.
type Page struct {
	// Title of the page.
	Title string

	// Path to the page from the root of the site.
	// Links to static assets are relative to this.
	Path string
}

func (r *Renderer) execute(w io.Writer, page *Page, name string, data any) error {
	render := render{
		Home: r.Home,
		Path: page.Path,
	}
	return errtrace.Wrap(
		template.Must(_pageTmpl.Clone()).
			Funcs(render.FuncMap()).
			ExecuteTemplate(w, name, data),
	)
}

type render struct {
	Home string
	Path string
}

func (r *render) FuncMap() template.FuncMap {
	return template.FuncMap{
		"static": r.static,
	}
}

func (r *render) static(p string) string {
	dir := path.Dir(r.Path)
	if dir == "." {
		dir = ""
	}
	return relative.Path(dir, path.Join(r.Home, StaticDir, p))
}
