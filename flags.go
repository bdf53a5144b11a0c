package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"time"

	"braces.dev/errtrace"
	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/rstview/internal/flagvalue"
	"go.abhg.dev/rstview/internal/html"
	"go.abhg.dev/rstview/internal/pagelist"
	"go.abhg.dev/rstview/internal/viewer"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// _envPrefix is the prefix for environment variables
// that set options.
const _envPrefix = "RSTVIEW"

// Supported values of -compiler.
const (
	compilerRST2HTML = "rst2html"
	compilerNative   = "native"
)

// Supported values of -highlight.
const (
	highlightClasses = "classes"
	highlightInline  = "inline"
	highlightNone    = "none"
)

// params holds all arguments for rstview.
type params struct {
	version bool
	help    Help

	Config string
	Debug  flagvalue.FileSwitch

	Root      string
	OutputDir string
	HTTP      string
	Embedded  bool

	AllowOrigins []origin

	Compiler  string
	RST2HTML  string
	Selector  string
	Highlight string
	Style     string
	Delay     time.Duration

	DB      string
	Enable  []pageURL
	Disable []pageURL

	Patterns []string
}

// cliParser parses the command line arguments for rstview.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer

	// Env enables reading options from RSTVIEW_* environment variables.
	Env bool
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("rstview", flag.ContinueOnError)
	// Parse errors are reported by Parse.
	flag.SetOutput(io.Discard)
	flag.Usage = func() {
		_ = DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Filesystem:
	flag.StringVar(&p.Root, "root", ".", "")
	flag.StringVar(&p.OutputDir, "out", "_site", "")

	// Serving:
	flag.StringVar(&p.HTTP, "http", "", "")
	flag.Var(flagvalue.ListOf(&p.AllowOrigins), "allow-origin", "")

	// HTML output:
	flag.BoolVar(&p.Embedded, "embed", false, "")
	flag.StringVar(&p.Selector, "selector", html.DefaultCodeSelector, "")
	flag.StringVar(&p.Highlight, "highlight", highlightClasses, "")
	flag.StringVar(&p.Style, "style", "plain", "")

	// Compilation:
	flag.StringVar(&p.Compiler, "compiler", compilerRST2HTML, "")
	flag.StringVar(&p.RST2HTML, "rst2html", "", "")
	flag.DurationVar(&p.Delay, "delay", viewer.DefaultDelay, "")

	// Page list:
	flag.StringVar(&p.DB, "db", "", "")
	flag.Var(flagvalue.ListOf(&p.Enable), "enable", "")
	flag.Var(flagvalue.ListOf(&p.Disable), "disable", "")

	// Program-level:
	flag.StringVar(&p.Config, "config", "", "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, flag := cmd.newFlagSet()

	opts := []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	}
	if cmd.Env {
		opts = append(opts, ff.WithEnvVarPrefix(_envPrefix))
	}
	if err := ff.Parse(flag, args, opts...); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errtrace.Wrap(err)
	}
	args = flag.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "rstview", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		if h := Help(args[0]); h.Write(io.Discard) == nil {
			p.help = h
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	if err := p.validate(); err != nil {
		fmt.Fprintln(cmd.Stderr, err)
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	p.Patterns = args
	if len(p.Patterns) == 0 && len(p.HTTP) == 0 && len(p.Enable)+len(p.Disable) == 0 {
		fmt.Fprintln(cmd.Stderr, "Please provide at least one pattern.")
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	return p, nil
}

func (p *params) validate() error {
	switch p.Compiler {
	case compilerRST2HTML, compilerNative:
	default:
		return errtrace.Errorf("-compiler: unknown compiler %q: expected %q or %q",
			p.Compiler, compilerRST2HTML, compilerNative)
	}

	switch p.Highlight {
	case highlightClasses, highlightInline, highlightNone:
	default:
		return errtrace.Errorf("-highlight: unknown mode %q: expected %q, %q, or %q",
			p.Highlight, highlightClasses, highlightInline, highlightNone)
	}

	return nil
}

// pageURL is a URL passed to -enable or -disable.
type pageURL string

var _ flag.Getter = (*pageURL)(nil)

func (u *pageURL) Get() any { return string(*u) }

func (u *pageURL) String() string { return string(*u) }

func (u *pageURL) Set(s string) error {
	if _, err := pagelist.Hostname(s); err != nil {
		return errtrace.Errorf("bad page URL: %w", err)
	}
	*u = pageURL(s)
	return nil
}

// origin is a browser origin passed to -allow-origin,
// e.g. "https://example.com", or "*" for any origin.
type origin string

var _ flag.Getter = (*origin)(nil)

func (o *origin) Get() any { return string(*o) }

func (o *origin) String() string { return string(*o) }

func (o *origin) Set(s string) error {
	if s != "*" {
		u, err := url.Parse(s)
		if err != nil {
			return errtrace.Errorf("bad origin: %w", err)
		}
		if u.Scheme == "" || u.Host == "" || (u.Path != "" && u.Path != "/") {
			return errtrace.Errorf("bad origin %q: expected scheme://host[:port]", s)
		}
		s = u.Scheme + "://" + u.Host
	}
	*o = origin(s)
	return nil
}

// allowedOrigins returns the -allow-origin values as strings.
func (p *params) allowedOrigins() []string {
	origins := make([]string, len(p.AllowOrigins))
	for i, o := range p.AllowOrigins {
		origins[i] = string(o)
	}
	return origins
}
