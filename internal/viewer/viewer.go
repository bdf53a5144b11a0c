// Package viewer implements the document pipeline:
// a raw RST document goes in, and a rendered document,
// or an error panel, comes out of a [html.Sink].
package viewer

import (
	"context"
	"log"
	"strings"
	"time"

	"braces.dev/errtrace"
	"go.abhg.dev/rstview/internal/html"
	"go.abhg.dev/rstview/internal/pagelist"
	"go.abhg.dev/rstview/internal/rst"
	"go.abhg.dev/rstview/internal/rst2html"
)

// DefaultDelay is the time the loading placeholder is shown
// before compilation starts.
const DefaultDelay = 100 * time.Millisecond

// EmptyOutputMessage is the error shown when compilation
// produces nothing to display.
const EmptyOutputMessage = "RST compilation produced no output"

// Compiler compiles RST source into HTML.
type Compiler interface {
	Compile(ctx context.Context, src string) (*rst2html.Result, error)
}

var (
	_ Compiler = (*rst2html.CLI)(nil)
	_ Compiler = (*rst2html.Native)(nil)
)

// Annotator tags code blocks in compiled HTML with their languages.
type Annotator interface {
	Annotate(src, body string) (string, error)
}

var _ Annotator = (*html.Annotator)(nil)

// Page is a document to process.
type Page struct {
	// URL identifies the document.
	// It's matched against the list of disabled pages.
	URL string

	// Text is the raw RST source.
	Text string
}

// Viewer runs documents through the pipeline.
type Viewer struct {
	Log       *log.Logger // required
	DebugLog  *log.Logger // optional
	Compiler  Compiler    // required
	Annotator Annotator   // required

	// Pages lists pages on which rendering is disabled.
	// If unset, all pages are rendered.
	Pages pagelist.Store

	// Delay before compilation, after the loading placeholder is shown.
	// Defaults to DefaultDelay. Negative values disable the delay.
	Delay time.Duration
}

func (v *Viewer) debugf(format string, args ...any) {
	if v.DebugLog != nil {
		v.DebugLog.Printf(format, args...)
	}
}

// Process runs a document through the pipeline and writes the result
// to the sink.
//
// Failures to compile or annotate the document are reported to the sink
// as an error panel and do not make Process fail.
// Only errors writing to the sink, or a canceled context, are returned.
func (v *Viewer) Process(ctx context.Context, page Page, sink html.Sink) error {
	if !v.enabled(ctx, page.URL) {
		v.debugf("%v: disabled", page.URL)
		return nil
	}

	if strings.TrimSpace(page.Text) == "" {
		v.debugf("%v: no text to process", page.URL)
		return nil
	}

	if err := sink.ShowLoading(); err != nil {
		return errtrace.Wrap(err)
	}
	if err := v.wait(ctx); err != nil {
		return errtrace.Wrap(err)
	}

	src := rst.Preprocess(page.Text)
	res, err := v.Compiler.Compile(ctx, src)
	if err != nil {
		v.Log.Printf("%v: %v", page.URL, err)
		return errtrace.Wrap(sink.ShowError(page.Text, err.Error()))
	}
	if strings.TrimSpace(res.Body) == "" {
		v.Log.Printf("%v: %v", page.URL, EmptyOutputMessage)
		return errtrace.Wrap(sink.ShowError(page.Text, EmptyOutputMessage))
	}

	body, err := v.Annotator.Annotate(page.Text, res.Body)
	if err != nil {
		v.Log.Printf("%v: annotate: %v", page.URL, err)
		return errtrace.Wrap(sink.ShowError(page.Text, err.Error()))
	}

	v.debugf("%v: rendered %d bytes", page.URL, len(body))
	return errtrace.Wrap(sink.Render(body, res.Header))
}

func (v *Viewer) enabled(ctx context.Context, url string) bool {
	if v.Pages == nil {
		return true
	}

	enabled, err := pagelist.Enabled(ctx, v.Pages, url)
	if err != nil {
		v.Log.Printf("%v: checking page list: %v", url, err)
		return true
	}
	return enabled
}

func (v *Viewer) wait(ctx context.Context) error {
	d := v.Delay
	if d == 0 {
		d = DefaultDelay
	}
	if d < 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return errtrace.Wrap(ctx.Err())
	case <-timer.C:
		return nil
	}
}
