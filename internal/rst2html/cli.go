package rst2html

import (
	"bytes"
	"context"
	"io"
	"log"
	"os/exec"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/rstview/internal/linebuf"
)

// CLI is a handle to the docutils rst2html CLI,
// which is used to compile RST documents to HTML.
type CLI struct {
	// RST2HTML is the path to the rst2html executable.
	// If unset, we'll search $PATH.
	RST2HTML string

	// Log is the logger to use for diagnostics written by rst2html.
	Log *log.Logger
}

// Arguments we always pass to rst2html.
//
// Syntax highlighting is turned off so that code blocks
// hold plain text that we can match against the source.
var _rst2htmlArgs = []string{
	"--quiet",
	"--syntax-highlight=none",
	"--input-encoding=utf-8",
	"--output-encoding=utf-8",
}

// Compile compiles the given RST source into HTML.
//
// Failures include the diagnostics rst2html reported, if any.
func (c *CLI) Compile(ctx context.Context, src string) (*Result, error) {
	logger := c.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	exe := c.RST2HTML
	if exe == "" {
		exe = "rst2html"
	}

	var diagnostics []string
	stderr, done := linebuf.Writer(func(line []byte) {
		line = bytes.TrimSuffix(line, []byte{'\n'})
		diagnostics = append(diagnostics, string(line))
		logger.Printf("%s", line)
	})

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, _rst2htmlArgs...)
	cmd.Stdin = strings.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	done()
	if err != nil {
		if len(diagnostics) > 0 {
			err = errtrace.Errorf("%w: %v", err, strings.Join(diagnostics, "; "))
		}
		return nil, errtrace.Errorf("rst2html: %w", err)
	}

	return errtrace.Wrap2(Split(&stdout))
}
