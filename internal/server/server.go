// Package server serves RST documents as rendered HTML pages.
//
// Documents come from two places:
// files under a local directory, and remote URLs fetched through
// the /_/view endpoint.
// Both are streamed to the client:
// a loading placeholder is sent right away,
// followed by the rendered document or an error panel.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.abhg.dev/rstview/internal/html"
	"go.abhg.dev/rstview/internal/pagelist"
	"go.abhg.dev/rstview/internal/viewer"
)

// Processor runs a document through the rendering pipeline.
type Processor interface {
	Process(ctx context.Context, page viewer.Page, sink html.Sink) error
}

var _ Processor = (*viewer.Viewer)(nil)

// Server is an HTTP handler for rendered RST documents.
type Server struct {
	Log       *log.Logger    // required
	Processor Processor      // required
	Renderer  *html.Renderer // required

	// Pages lists pages on which rendering is disabled.
	// The /_/pages API is unavailable if this is unset.
	Pages pagelist.Store

	// Root is the directory served at "/".
	// Local files are not served if this is empty.
	Root string

	// Client fetches remote documents.
	// Defaults to http.DefaultClient.
	Client *http.Client

	// AllowedOrigins lists origins other than the server's own
	// that may use the /_/pages API from a browser.
	// Use "*" to permit all origins.
	AllowedOrigins []string
}

// Handler builds the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  s.Log,
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Route("/_", func(r chi.Router) {
		r.Get("/view", s.serveView)

		r.Route("/pages", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowOriginFunc: s.originAllowed,
				AllowedMethods:  []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:  []string{"Accept", "Content-Type"},
				MaxAge:          300,
			}))
			r.Get("/", s.getPage)
			r.Group(func(r chi.Router) {
				r.Use(s.requireOrigin)
				r.Post("/enable", s.setPage(true))
				r.Post("/disable", s.setPage(false))
			})
		})

		r.Get("/*", s.serveStatic)
	})

	r.Get("/*", s.serveFile)
	return r
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")
	bs, err := s.Renderer.Static(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		s.Log.Printf("static %v: %v", p, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.ServeContent(w, r, path.Base(p), time.Time{}, bytes.NewReader(bs))
}

// isDocument reports whether a file or URL path names an RST document.
func isDocument(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".rst", ".rest":
		return true
	}
	return false
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	if s.Root == "" {
		http.NotFound(w, r)
		return
	}

	p := path.Clean("/" + chi.URLParam(r, "*"))
	if !isDocument(p) && strings.ToLower(path.Ext(p)) != ".txt" {
		http.FileServer(http.Dir(s.Root)).ServeHTTP(w, r)
		return
	}

	f, err := os.Open(filepath.Join(s.Root, filepath.FromSlash(p)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		s.Log.Printf("open %v: %v", p, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()

	text, err := viewer.ReadText(f)
	if err != nil {
		s.Log.Printf("read %v: %v", p, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := viewer.Page{
		URL:  (&url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(s.absRoot(), p))}).String(),
		Text: text,
	}
	s.render(w, r, page, path.Base(p))
}

func (s *Server) absRoot() string {
	if abs, err := filepath.Abs(s.Root); err == nil {
		return abs
	}
	return s.Root
}

func (s *Server) serveView(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		http.Error(w, "url must be an http or https URL", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		s.Log.Printf("fetch %v: %v", target, err)
		http.Error(w, "could not fetch "+target, http.StatusBadGateway)
		return
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		http.Error(w, "fetch "+target+": "+res.Status, http.StatusBadGateway)
		return
	}

	// Anything other than plain text is left to the browser.
	if !isPlainText(res.Header.Get("Content-Type")) && !isDocument(u.Path) {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	text, err := viewer.ReadText(res.Body)
	if err != nil {
		s.Log.Printf("read %v: %v", target, err)
		http.Error(w, "could not read "+target, http.StatusBadGateway)
		return
	}

	s.render(w, r, viewer.Page{URL: target, Text: text}, path.Base(u.Path))
}

func isPlainText(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), "text/plain")
}

// render streams the processed page to the client.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page viewer.Page, title string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var written bool
	sink := html.PageSink{
		W: writerFunc(func(b []byte) (int, error) {
			written = true
			return w.Write(b)
		}),
		Renderer: s.Renderer,
		Page: html.Page{
			Title: title,
			Path:  r.URL.Path,
		},
	}
	if f, ok := w.(http.Flusher); ok {
		sink.Flush = f.Flush
	}

	err := s.Processor.Process(r.Context(), page, &sink)
	switch {
	case err != nil:
		s.Log.Printf("%v: %v", page.URL, err)
	case !written:
		// Disabled and blank documents are shown as-is.
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, page.Text)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) { return f(b) }

type pageStatus struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	target, ok := s.pageURL(w, r)
	if !ok {
		return
	}

	enabled, err := pagelist.Enabled(r.Context(), s.Pages, target)
	if err != nil {
		// The page is rendered if the list can't be read.
		s.Log.Printf("check %v: %v", target, err)
		enabled = true
	}
	writeJSON(w, pageStatus{URL: target, Enabled: enabled})
}

func (s *Server) setPage(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, ok := s.pageURL(w, r)
		if !ok {
			return
		}

		if err := pagelist.SetEnabled(r.Context(), s.Pages, target, enabled); err != nil {
			s.Log.Printf("update %v: %v", target, err)
			http.Error(w, "could not update page list", http.StatusInternalServerError)
			return
		}
		writeJSON(w, pageStatus{URL: target, Enabled: enabled})
	}
}

// requireOrigin rejects requests sent by browsers
// from origins that aren't allowed.
//
// CORS headers only stop browsers from reading responses.
// Simple POST requests still reach the handler without this.
func (s *Server) requireOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && !s.originAllowed(r, origin) {
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// originAllowed reports whether a browser at origin
// may use the page list API.
func (s *Server) originAllowed(r *http.Request, origin string) bool {
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, o := range s.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (s *Server) pageURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.Pages == nil {
		http.Error(w, "page list is not configured", http.StatusNotFound)
		return "", false
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return "", false
	}
	if _, err := pagelist.Hostname(target); err != nil {
		http.Error(w, "invalid url: "+err.Error(), http.StatusBadRequest)
		return "", false
	}
	return target, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves the handler on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          s.Log,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errtrace.Wrap(err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errtrace.Wrap(srv.Shutdown(shutdownCtx))
	}
}
