package viewer

import (
	"io"

	"braces.dev/errtrace"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadText reads an RST document as UTF-8.
//
// A leading byte order mark is stripped,
// and UTF-16 documents marked with one are transcoded.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func ReadText(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	bs, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return string(bs), nil
}
