package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	data := []byte("in memory")
	require.NoError(t, store.Put(ctx, "a/b.txt", data))
	data[0] = 'X' // stored copy must be independent

	blob, err := store.Open(ctx, "a/b.txt")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(9), blob.Size())
	assert.Equal(t, "b.txt", blob.Info().Name)

	buf := make([]byte, 9)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "in memory", string(buf[:n]))

	n, err = blob.ReadAt(ctx, buf, 3)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "memory", string(buf[:n]))

	store.Delete("a/b.txt")
	_, err = store.Open(ctx, "a/b.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ContentType(t *testing.T) {
	store := NewMemoryStore()
	store.PutWithType("img", []byte{0x89, 'P', 'N', 'G'}, "image/png")

	blob, err := store.Open(context.Background(), "img")
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.Info().ContentType)
}

func TestMemoryStore_Modes(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"w", "XY"},
		{"wa", "abcdefXY"},
		{"rw", "XYcdef"},
		{"rwt", "XY"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			store := NewMemoryStore()
			writeBlob(t, store, "f", "w", []byte("abcdef"))
			writeBlob(t, store, "f", tt.mode, []byte("XY"))
			assert.Equal(t, tt.want, string(readAll(t, store, "f")))
		})
	}

	t.Run("rw past end", func(t *testing.T) {
		store := NewMemoryStore()
		writeBlob(t, store, "f", "w", []byte("ab"))
		writeBlob(t, store, "f", "rw", []byte("XYZ"))
		assert.Equal(t, "XYZ", string(readAll(t, store, "f")))
	})
}

func TestMemoryStore_WriteVisibleOnClose(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	w, err := store.Create(ctx, "pending", ModeWrite|ModeTruncate)
	require.NoError(t, err)
	_, err = w.Write([]byte("soon"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())

	_, err = store.Open(ctx, "pending")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Close())
	assert.Equal(t, "soon", string(readAll(t, store, "pending")))
}

func TestMemoryStore_Abort(t *testing.T) {
	ctx := context.Background()

	for _, mode := range []string{"w", "wa", "rw", "rwt"} {
		t.Run(mode, func(t *testing.T) {
			store := NewMemoryStore()
			writeBlob(t, store, "f", "w", []byte("base"))

			m, err := ParseMode(mode)
			require.NoError(t, err)
			w, err := store.Create(ctx, "f", m)
			require.NoError(t, err)
			_, err = w.Write([]byte("partial"))
			require.NoError(t, err)

			require.NoError(t, w.Abort(context.DeadlineExceeded))
			require.NoError(t, w.Close())
			assert.Equal(t, "base", string(readAll(t, store, "f")))
		})
	}

	t.Run("new blob", func(t *testing.T) {
		store := NewMemoryStore()
		w, err := store.Create(ctx, "absent", ModeWrite|ModeAppend)
		require.NoError(t, err)
		require.NoError(t, w.Abort(nil))

		_, err = store.Open(ctx, "absent")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
