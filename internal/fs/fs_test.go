package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())

	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	buf := make([]byte, 3)
	_, err = f.ReadAt(buf, 1)
	assert.NoError(t, err)
	assert.Equal(t, "ell", string(buf))

	assert.NoError(t, f.Close())

	info2, err := lfs.Stat(fpath)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info2.Size())

	assert.NoError(t, lfs.Remove(fpath))
	_, err = lfs.Stat(fpath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("faulty", Fault{FailAfterBytes: 5})

	f, err := ffs.OpenFile(filepath.Join(tmp, "faulty.txt"), os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 0, n)

	assert.Equal(t, int64(5), ffs.Written())
}

func TestFaultyFS_Rules(t *testing.T) {
	tmp := t.TempDir()
	custom := errors.New("disk on fire")

	ffs := NewFaultyFS(nil)
	ffs.AddRule("locked", Fault{FailOnOpen: true, FailAfterBytes: -1})
	ffs.AddRule("flaky", Fault{FailOnSync: true, FailOnClose: true, FailAfterBytes: -1, Err: custom})

	_, err := ffs.OpenFile(filepath.Join(tmp, "locked.bin"), os.O_CREATE|os.O_RDWR, 0644)
	assert.ErrorIs(t, err, ErrInjected)
	var pe *os.PathError
	assert.ErrorAs(t, err, &pe)

	f, err := ffs.OpenFile(filepath.Join(tmp, "flaky.bin"), os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte("data"))
	assert.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), custom)
	assert.ErrorIs(t, f.Close(), custom)

	// Unmatched names pass through untouched.
	plain, err := ffs.OpenFile(filepath.Join(tmp, "plain.bin"), os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	assert.NoError(t, plain.Sync())
	assert.NoError(t, plain.Close())
}

func TestFaultyFS_Delegation(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, ffs.MkdirAll(dir, 0755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = ffs.Stat(fpath)
	assert.NoError(t, err)

	moved := filepath.Join(dir, "moved.txt")
	assert.NoError(t, ffs.Rename(fpath, moved))
	assert.NoError(t, ffs.Truncate(moved, 3))
	info, err := ffs.Stat(moved)
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())

	assert.NoError(t, ffs.Remove(moved))
}

func TestFaultyFS_FailOnRename(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("target", Fault{FailOnRename: true, FailAfterBytes: -1})

	src := filepath.Join(tmp, "source.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))

	err := ffs.Rename(src, filepath.Join(tmp, "target.txt"))
	assert.ErrorIs(t, err, ErrInjected)
	var le *os.LinkError
	assert.ErrorAs(t, err, &le)

	_, err = os.Stat(src)
	assert.NoError(t, err)
}
