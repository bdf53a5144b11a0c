// Package flagvalue holds the flag.Value types
// used by the rstview command line.
package flagvalue

import "flag"

// Getter constrains PT to be a pointer to T
// that implements flag.Getter.
type Getter[T any] interface {
	*T
	flag.Getter
}
