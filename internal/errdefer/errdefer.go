// Package errdefer runs deferred cleanup
// whose errors belong in the caller's return value.
package errdefer

import (
	"errors"
	"io"
)

// Run calls fn and joins its error into *err.
//
//	defer errdefer.Run(&err, flush)
//
// err must point to a named return value.
func Run(err *error, fn func() error) {
	*err = errors.Join(*err, fn())
}

// Close closes c and joins its error into *err.
func Close(err *error, c io.Closer) {
	Run(err, c.Close)
}
