package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contentbridge/blobstore"
)

func TestPayload(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.Payload(1024)
	assert.Len(t, p, 1024)
	assert.NotEqual(t, make([]byte, 1024), p)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	p1 := rng.Payload(64)

	rng.Reset()
	p2 := rng.Payload(64)

	assert.Equal(t, p1, p2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestTextPayload(t *testing.T) {
	rng := NewRNG(42)

	p := rng.TextPayload(4096)
	assert.Len(t, p, 4096)
	assert.Contains(t, string(p), " ")
	for _, c := range p {
		assert.True(t, c == ' ' || c == '\n' || (c >= 'a' && c <= 'z'), "unexpected byte %q", c)
	}
}

func TestLatencyStore(t *testing.T) {
	base := blobstore.NewMemoryStore()
	require.NoError(t, base.Put(t.Context(), "obj", []byte("slow bytes")))

	s := NewLatencyStore(base, 10*time.Millisecond)

	start := time.Now()
	b, err := s.Open(t.Context(), "obj")
	require.NoError(t, err)
	defer b.Close()

	buf := make([]byte, 4)
	n, err := b.ReadAt(t.Context(), buf, 5)
	require.NoError(t, err)
	assert.Equal(t, "byte", string(buf[:n]))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)

	_, isMappable := b.(blobstore.Mappable)
	assert.False(t, isMappable)
	assert.Equal(t, int64(10), b.Size())
	assert.Equal(t, "obj", b.Info().Name)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = s.Open(ctx, "obj")
	assert.ErrorIs(t, err, context.Canceled)
}
