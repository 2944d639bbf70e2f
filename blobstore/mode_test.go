package blobstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in       string
		flags    int
		replaces bool
		str      string
	}{
		{"w", os.O_CREATE | os.O_WRONLY | os.O_TRUNC, true, "wt"},
		{"wt", os.O_CREATE | os.O_WRONLY | os.O_TRUNC, true, "wt"},
		{"wa", os.O_CREATE | os.O_WRONLY | os.O_APPEND, false, "wa"},
		{"rw", os.O_CREATE | os.O_RDWR, false, "rw"},
		{"rwt", os.O_CREATE | os.O_RDWR | os.O_TRUNC, true, "rwt"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.flags, m.Flags())
			assert.Equal(t, tt.replaces, m.Replaces())
			assert.Equal(t, tt.str, m.String())
		})
	}
}

func TestParseMode_Invalid(t *testing.T) {
	for _, in := range []string{"", "r", "x", "wr", "W", "rwa"} {
		_, err := ParseMode(in)
		assert.ErrorIs(t, err, ErrUnsupportedMode, in)
	}
	assert.Equal(t, "Mode(0x0)", Mode(0).String())
}
