package flagvalue

import (
	"flag"
	"io"
	"log"
	"os"

	"braces.dev/errtrace"
)

// FileSwitch is a flag that may be passed as "-x" or "-x=path".
//
// Without a value, output goes to a fallback writer.
// With a value, output goes to the named file.
type FileSwitch string

var _ flag.Getter = (*FileSwitch)(nil)

// _fallback is recorded when the flag is passed without a value.
const _fallback = "-"

func (fs *FileSwitch) Get() any { return string(*fs) }

func (fs *FileSwitch) String() string { return string(*fs) }

// IsBoolFlag allows the flag to be passed without a value.
func (*FileSwitch) IsBoolFlag() bool { return true }

// Set records the destination for this flag.
// "true" selects the fallback writer and "false" turns the flag off.
func (fs *FileSwitch) Set(v string) error {
	switch v {
	case "true":
		v = _fallback
	case "false":
		v = ""
	}
	*fs = FileSwitch(v)
	return nil
}

// Enabled reports whether the flag was turned on.
func (fs *FileSwitch) Enabled() bool { return len(*fs) > 0 }

// Logger opens the destination for this flag
// and returns a logger that writes to it,
// along with a function to close the destination.
//
// The logger is nil if the flag is off.
func (fs *FileSwitch) Logger(fallback io.Writer) (_ *log.Logger, closeFn func() error, err error) {
	switch *fs {
	case "":
		return nil, nopClose, nil
	case _fallback:
		return log.New(fallback, "", 0), nopClose, nil
	}

	f, err := os.Create(string(*fs))
	if err != nil {
		return nil, nil, errtrace.Wrap(err)
	}
	return log.New(f, "", 0), f.Close, nil
}

func nopClose() error { return nil }
