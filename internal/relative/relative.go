// Package relative builds relative links between pages of a site.
package relative

import (
	"fmt"
	"path"
	"strings"
)

// Path returns a /-separated path to dst, relative to the directory src.
// Both paths must be relative or both paths must be absolute.
//
// This relies on string manipulation exclusively,
// so it doesn't touch the filesystem and doesn't fail.
func Path(src, dst string) string {
	if path.IsAbs(src) != path.IsAbs(dst) {
		panic(fmt.Sprintf("Path(%q, %q): both must be absolute, or both must be relative", src, dst))
	}
	// src is always a directory.
	src = strings.TrimSuffix(src, "/")

	srcParts := split(strings.TrimPrefix(src, "/"))
	dstParts := split(strings.TrimPrefix(dst, "/"))
	srcParts, dstParts = trimCommonPrefix(srcParts, dstParts)

	parts := make([]string, 0, len(srcParts)+len(dstParts))
	for range srcParts {
		parts = append(parts, "..")
	}
	parts = append(parts, dstParts...)
	return strings.Join(parts, "/")
}

func split(p string) []string {
	if len(p) == 0 {
		return nil
	}
	return strings.Split(p, "/")
}

// trimCommonPrefix drops the leading elements shared by a and b.
func trimCommonPrefix(a, b []string) ([]string, []string) {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return a[n:], b[n:]
}
