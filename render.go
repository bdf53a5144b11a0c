package main

import (
	"bytes"
	"context"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"braces.dev/errtrace"
	"github.com/bmatcuk/doublestar/v4"
	"go.abhg.dev/rstview/internal/errdefer"
	"go.abhg.dev/rstview/internal/html"
	"go.abhg.dev/rstview/internal/viewer"
)

// Processor runs a document through the rendering pipeline.
type Processor interface {
	Process(ctx context.Context, page viewer.Page, sink html.Sink) error
}

var _ Processor = (*viewer.Viewer)(nil)

// Generator renders RST documents into a directory of HTML pages.
//
// In terms of code organization,
// Generator's purpose is to add a separation between main
// and the program's core logic to aid in testability.
type Generator struct {
	Log       *log.Logger
	Processor Processor
	Renderer  *html.Renderer

	// Root is the directory documents are read from.
	Root string

	// OutDir is the directory pages are written to.
	OutDir string
}

// Generate renders the given documents.
// Paths are /-separated and relative to Root.
func (g *Generator) Generate(ctx context.Context, files []string) error {
	if err := g.Renderer.WriteStatic(g.OutDir); err != nil {
		return errtrace.Wrap(err)
	}

	for _, file := range files {
		if err := g.generate(ctx, file); err != nil {
			return errtrace.Errorf("%v: %w", file, err)
		}
	}
	return nil
}

func (g *Generator) generate(ctx context.Context, file string) (err error) {
	src := filepath.Join(g.Root, filepath.FromSlash(file))
	text, err := readFile(src)
	if err != nil {
		return err
	}

	outPath := htmlPath(file)
	var buff bytes.Buffer
	sink := html.PageSink{
		W:        &buff,
		Renderer: g.Renderer,
		Page: html.Page{
			Title: path.Base(file),
			Path:  outPath,
		},
	}
	page := viewer.Page{
		URL:  fileURL(src),
		Text: text,
	}
	if err := g.Processor.Process(ctx, page, &sink); err != nil {
		return errtrace.Wrap(err)
	}
	if buff.Len() == 0 {
		g.Log.Printf("Skipping %v: disabled or empty", file)
		return nil
	}

	dst := filepath.Join(g.OutDir, filepath.FromSlash(outPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o1755); err != nil {
		return errtrace.Wrap(err)
	}

	g.Log.Printf("Rendering %v", file)
	f, err := os.Create(dst)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	_, err = buff.WriteTo(f)
	return errtrace.Wrap(err)
}

func readFile(name string) (_ string, err error) {
	f, err := os.Open(name)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	return errtrace.Wrap2(viewer.ReadText(f))
}

// htmlPath replaces the extension of a document path with .html.
func htmlPath(p string) string {
	return strings.TrimSuffix(p, path.Ext(p)) + ".html"
}

// fileURL builds a file:// URL for the given file path.
func fileURL(name string) string {
	if abs, err := filepath.Abs(name); err == nil {
		name = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(name)}).String()
}

// findFiles lists files under root matching any of the given patterns.
// Patterns may use '**' to match any number of directories.
// The result is sorted and free of duplicates.
func findFiles(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)

	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, path.Clean(filepath.ToSlash(pattern)), doublestar.WithFilesOnly())
		if err != nil {
			return nil, errtrace.Errorf("pattern %q: %w", pattern, err)
		}

		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}
