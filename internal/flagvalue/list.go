package flagvalue

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
)

// List collects repeated instances of a flag into a slice.
//
// Each argument may hold several space-separated values,
// so that a single environment variable or config file entry
// can fill the whole list.
type List[T any, PT Getter[T]] []T

// ListOf adapts a slice to accept repeated flags.
//
//	flag.Var(flagvalue.ListOf(&disable), "disable", ...)
func ListOf[T any, PT Getter[T]](vs *[]T) *List[T, PT] {
	return (*List[T, PT])(vs)
}

// Get returns the collected values as a []T.
func (lv *List[T, PT]) Get() any { return []T(*lv) }

// String returns the collected values separated by spaces.
func (lv *List[T, PT]) String() string {
	if lv == nil {
		return ""
	}

	items := make([]string, len(*lv))
	for i, v := range *lv {
		items[i] = fmt.Sprint(v)
	}
	return strings.Join(items, " ")
}

// Set parses every space-separated value in s
// and appends them to the list.
// Nothing is appended if any of them is invalid.
func (lv *List[T, PT]) Set(s string) error {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return errtrace.Errorf("empty value")
	}

	values := make([]T, len(fields))
	for i, f := range fields {
		if err := PT(&values[i]).Set(f); err != nil {
			return errtrace.Wrap(err)
		}
	}
	*lv = append(*lv, values...)
	return nil
}
