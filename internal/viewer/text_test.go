package viewer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want string
	}{
		{desc: "plain", give: "Title\n=====\n", want: "Title\n=====\n"},
		{desc: "utf8 bom", give: "\xef\xbb\xbfTitle\n", want: "Title\n"},
		{desc: "utf16le bom", give: "\xff\xfeH\x00i\x00\n\x00", want: "Hi\n"},
		{desc: "utf16be bom", give: "\xfe\xff\x00H\x00i", want: "Hi"},
		{desc: "invalid utf8", give: "a\xffb", want: "a�b"},
		{desc: "non-ascii", give: "Überschrift\n", want: "Überschrift\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			got, err := ReadText(strings.NewReader(tt.give))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
