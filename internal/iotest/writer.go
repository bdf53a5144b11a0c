// Package iotest provides IO helpers for tests.
package iotest

import (
	"bytes"
	"io"
	"testing"
)

var _newline = []byte("\n")

// Writer builds an io.Writer that writes to the given testing.TB.
// Each write becomes one log entry, so it suits loggers
// that write a line at a time.
func Writer(t testing.TB) io.Writer {
	return &writer{t}
}

type writer struct{ t testing.TB }

func (w *writer) Write(b []byte) (int, error) {
	w.t.Logf("%s", bytes.TrimSuffix(b, _newline))
	return len(b), nil
}
