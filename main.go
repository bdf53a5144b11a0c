// rstview renders reStructuredText documents as HTML pages
// with every code block tagged with its language.
//
// Documents are either rendered into a directory,
//
//	rstview -out _site 'docs/**/*.rst'
//
// or served over HTTP.
//
//	rstview -http :8080 -root docs
//
// Run rstview -help for the full list of options.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"go.abhg.dev/rstview/internal/errdefer"
	"go.abhg.dev/rstview/internal/highlight"
	"go.abhg.dev/rstview/internal/html"
	"go.abhg.dev/rstview/internal/pagelist"
	"go.abhg.dev/rstview/internal/rst2html"
	"go.abhg.dev/rstview/internal/server"
	"go.abhg.dev/rstview/internal/viewer"
)

// _version is the version of rstview.
// It's overridden at build time with -ldflags.
var _version = "dev"

func main() {
	cmd := mainCmd{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env:    true,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	// Env enables reading options from the environment.
	Env bool

	log *log.Logger
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
		Env:    cmd.Env,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, errHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, opts); err != nil {
		cmd.log.Printf("rstview: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(ctx context.Context, opts *params) (err error) {
	debugLog, closeDebug, err := opts.Debug.Logger(cmd.Stderr)
	if err != nil {
		return errtrace.Errorf("-debug: %w", err)
	}
	defer errdefer.Run(&err, closeDebug)

	pages, err := cmd.openPages(opts.DB)
	if err != nil {
		return err
	}
	if c, ok := pages.(io.Closer); ok {
		defer errdefer.Close(&err, c)
	}

	if err := cmd.updatePages(ctx, pages, opts); err != nil {
		return err
	}
	if len(opts.Patterns) == 0 && len(opts.HTTP) == 0 {
		return nil
	}

	selector, err := cascadia.Compile(opts.Selector)
	if err != nil {
		return errtrace.Errorf("-selector: %w", err)
	}

	var highlighter *highlight.Highlighter
	if opts.Highlight != highlightNone {
		style, ok := highlight.LookupStyle(opts.Style)
		if !ok {
			return errtrace.Errorf("-style: unknown style %q", opts.Style)
		}
		highlighter = &highlight.Highlighter{
			Style:      style,
			UseClasses: opts.Highlight == highlightClasses,
		}
	}

	annotator := html.Annotator{
		Selector: selector,
		DebugLog: debugLog,
	}
	renderer := html.Renderer{
		Embedded: opts.Embedded,
	}
	if highlighter != nil {
		annotator.Highlighter = highlighter
		renderer.Highlighter = highlighter
	}

	var compiler viewer.Compiler
	switch opts.Compiler {
	case compilerNative:
		compiler = new(rst2html.Native)
	default:
		compiler = &rst2html.CLI{
			RST2HTML: opts.RST2HTML,
			Log:      cmd.log,
		}
	}

	v := viewer.Viewer{
		Log:       cmd.log,
		DebugLog:  debugLog,
		Compiler:  compiler,
		Annotator: &annotator,
		Pages:     pages,
		Delay:     viewerDelay(opts.Delay),
	}

	if len(opts.HTTP) > 0 {
		renderer.Home = "/"
		srv := server.Server{
			Log:       cmd.log,
			Processor: &v,
			Renderer:  &renderer,
			Pages:     pages,
			Root:      opts.Root,

			AllowedOrigins: opts.allowedOrigins(),
		}
		cmd.log.Printf("Serving %v on %v", opts.Root, opts.HTTP)
		return srv.ListenAndServe(ctx, opts.HTTP)
	}

	// Documents are written once, with no loading placeholder to show.
	v.Delay = -1

	files, err := findFiles(opts.Root, opts.Patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errtrace.Errorf("no files match %q in %v", opts.Patterns, opts.Root)
	}

	gen := Generator{
		Log:       cmd.log,
		Processor: &v,
		Renderer:  &renderer,
		Root:      opts.Root,
		OutDir:    opts.OutputDir,
	}
	return gen.Generate(ctx, files)
}

// viewerDelay converts the -delay flag into a [viewer.Viewer] delay.
// Zero on the command line means no delay.
func viewerDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return -1
	}
	return d
}

// openPages opens the list of disabled pages.
// The list is held in memory if path is empty.
func (cmd *mainCmd) openPages(path string) (pagelist.Store, error) {
	if path == "" {
		return new(pagelist.MemStore), nil
	}

	store, err := pagelist.Open(path)
	if err != nil {
		return nil, errtrace.Errorf("-db: %w", err)
	}
	return store, nil
}

func (cmd *mainCmd) updatePages(ctx context.Context, pages pagelist.Store, opts *params) error {
	for _, u := range opts.Disable {
		if err := pagelist.SetEnabled(ctx, pages, string(u), false); err != nil {
			return errtrace.Errorf("disable %v: %w", u, err)
		}
		cmd.log.Printf("Disabled %v", u)
	}
	for _, u := range opts.Enable {
		if err := pagelist.SetEnabled(ctx, pages, string(u), true); err != nil {
			return errtrace.Errorf("enable %v: %w", u, err)
		}
		cmd.log.Printf("Enabled %v", u)
	}
	return nil
}
