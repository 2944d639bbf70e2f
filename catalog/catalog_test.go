package catalog

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/contentbridge/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMimeTypeByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"report.pdf", "application/pdf"},
		{"photo.PNG", "image/png"},
		{"data.json", "application/json"},
		{"page.html", "text/html"},
		{"archive.unknownext", DefaultMimeType},
		{"README", DefaultMimeType},
		{"", DefaultMimeType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MimeTypeByName(tt.name))
		})
	}
}

func TestStatic(t *testing.T) {
	s := NewStatic(
		Entry{URI: "mem://a", DisplayName: "A.txt", MimeType: "text/plain"},
		Entry{URI: "mem://b", DisplayName: "B"},
	)
	ctx := context.Background()

	e, err := s.Lookup(ctx, "mem://a")
	require.NoError(t, err)
	assert.Equal(t, "A.txt", e.DisplayName)

	_, err = s.Lookup(ctx, "mem://missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s.Put(Entry{URI: "mem://c", DisplayName: "C"})
	assert.Equal(t, 3, s.Len())
}

func TestLoadStatic(t *testing.T) {
	manifest := `[
		{"uri": "file:///data/report.pdf", "display_name": "Q3 Report.pdf", "mime_type": "application/pdf"},
		{"uri": "s3://media/cat.jpg", "display_name": "cat.jpg"}
	]`

	for _, c := range []codec.Codec{nil, codec.JSON{}, codec.GoJSON{}} {
		s, err := LoadStatic(strings.NewReader(manifest), c)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Len())

		e, err := s.Lookup(context.Background(), "s3://media/cat.jpg")
		require.NoError(t, err)
		assert.Equal(t, "cat.jpg", e.DisplayName)
		assert.Empty(t, e.MimeType)
	}
}

func TestLoadStatic_Invalid(t *testing.T) {
	_, err := LoadStatic(strings.NewReader(`{not json`), nil)
	assert.Error(t, err)

	_, err = LoadStatic(strings.NewReader(`[{"display_name": "orphan"}]`), nil)
	assert.ErrorContains(t, err, "no uri")
}

type countingCatalog struct {
	inner Catalog
	calls atomic.Int64
}

func (c *countingCatalog) Lookup(ctx context.Context, uri string) (Entry, error) {
	c.calls.Add(1)
	return c.inner.Lookup(ctx, uri)
}

func TestCached(t *testing.T) {
	static := NewStatic(Entry{URI: "mem://a", DisplayName: "A"})
	inner := &countingCatalog{inner: static}
	c := NewCached(inner, 8)
	ctx := context.Background()

	for range 3 {
		e, err := c.Lookup(ctx, "mem://a")
		require.NoError(t, err)
		assert.Equal(t, "A", e.DisplayName)
	}
	assert.Equal(t, int64(1), inner.calls.Load())

	// Misses are not cached.
	_, err := c.Lookup(ctx, "mem://b")
	assert.True(t, errors.Is(err, ErrNotFound))
	static.Put(Entry{URI: "mem://b", DisplayName: "B"})
	e, err := c.Lookup(ctx, "mem://b")
	require.NoError(t, err)
	assert.Equal(t, "B", e.DisplayName)

	static.Put(Entry{URI: "mem://a", DisplayName: "A2"})
	c.Invalidate("mem://a")
	e, err = c.Lookup(ctx, "mem://a")
	require.NoError(t, err)
	assert.Equal(t, "A2", e.DisplayName)

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(4), misses)
}
