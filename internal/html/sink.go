package html

import (
	"errors"
	"html/template"
	"io"

	"braces.dev/errtrace"
)

// Sink is the destination for a processed document.
//
// A document shows a loading placeholder while it's being compiled,
// and then either the compiled document or an error panel.
type Sink interface {
	// ShowLoading shows a placeholder while the document is processed.
	ShowLoading() error

	// ShowError shows the original text of the document
	// with an optional error message.
	ShowError(text, message string) error

	// Render shows the compiled document.
	// header is HTML for the page's <head>, and may be empty.
	Render(body, header string) error
}

var _ Sink = (*PageSink)(nil)

var errSinkClosed = errors.New("page already rendered")

// PageSink is a [Sink] that writes an HTML page to a writer.
//
// Only one of ShowError or Render may be called.
// By default, ShowLoading is a no-op
// because the page is written only once.
// If Flush is set, the loading placeholder is written and flushed right away,
// and the rest of the page follows it on the same stream,
// hiding the placeholder.
type PageSink struct {
	W        io.Writer // required
	Renderer *Renderer // required
	Page     Page

	// Flush flushes W to the reader.
	// Setting this enables streaming.
	Flush func()

	started bool
	closed  bool
}

// ShowLoading writes a loading placeholder if streaming.
func (s *PageSink) ShowLoading() error {
	if s.closed {
		return errtrace.Wrap(errSinkClosed)
	}
	if s.Flush == nil || s.Renderer.Embedded || s.started {
		return nil
	}

	if err := s.begin(); err != nil {
		return err
	}
	if err := s.execute("Loading", nil); err != nil {
		return err
	}
	s.Flush()
	return nil
}

type errorData struct {
	Text    string
	Message string
}

// ShowError writes an error panel with the original document text.
// message may be empty.
func (s *PageSink) ShowError(text, message string) error {
	if err := s.begin(); err != nil {
		return err
	}
	if err := s.execute("Error", errorData{Text: text, Message: message}); err != nil {
		return err
	}
	return s.end()
}

type contentData struct {
	Body   template.HTML
	Header template.HTML
}

// Render writes the compiled document.
func (s *PageSink) Render(body, header string) error {
	if err := s.begin(); err != nil {
		return err
	}
	data := contentData{
		Body:   template.HTML(body),
		Header: template.HTML(header),
	}
	if err := s.execute("Content", data); err != nil {
		return err
	}
	return s.end()
}

// begin starts the page, or if the loading placeholder was already
// written, hides it.
func (s *PageSink) begin() error {
	if s.closed {
		return errtrace.Wrap(errSinkClosed)
	}
	if s.Renderer.Embedded {
		return nil
	}
	if s.started {
		return s.execute("HideLoading", nil)
	}
	s.started = true
	return s.execute("Start", s.Page)
}

func (s *PageSink) end() error {
	s.closed = true
	if s.Renderer.Embedded {
		return nil
	}
	return s.execute("End", nil)
}

func (s *PageSink) execute(name string, data any) error {
	return s.Renderer.execute(s.W, &s.Page, name, data)
}
