package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/hupe1980/contentbridge/internal/fs"
	"github.com/hupe1980/contentbridge/internal/mmap"
)

// LocalStore implements Store and Writer using the local file system.
// Reads are memory-mapped; writes go through an fs.FileSystem.
type LocalStore struct {
	root string
	fs   fs.FileSystem
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
// An empty root resolves names as absolute paths.
func NewLocalStore(root string) *LocalStore {
	return NewLocalStoreFS(root, fs.Default)
}

// NewLocalStoreFS is NewLocalStore with a custom file system for writes.
func NewLocalStoreFS(root string, fsys fs.FileSystem) *LocalStore {
	return &LocalStore{root: root, fs: fsys}
}

// path confines name below root. "../" cannot escape it.
func (s *LocalStore) path(name string) string {
	clean := filepath.Clean(string(filepath.Separator) + filepath.FromSlash(name))
	if s.root == "" {
		return clean
	}
	return filepath.Join(s.root, clean)
}

// Open opens a blob for reading.
func (s *LocalStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(name)
	fi, err := s.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: ErrNotFound}
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessSequential)

	return &localBlob{
		m: m,
		info: Info{
			Name:    fi.Name(),
			Size:    int64(m.Size()),
			ModTime: fi.ModTime(),
		},
	}, nil
}

// Create opens name for writing, creating parent directories as needed.
//
// Replacing and overwriting modes write to a temporary file next to name that
// is renamed over it on Close. Appends go to name directly; Abort truncates
// them back to the length name had when Create was called.
func (s *LocalStore) Create(ctx context.Context, name string, mode Mode) (WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(name)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	if mode.Appends() {
		return s.createAppend(path, mode)
	}
	return s.createStaged(path, mode)
}

func (s *LocalStore) createAppend(path string, mode Mode) (WritableBlob, error) {
	w := &localWritableBlob{fs: s.fs, path: path}

	fi, err := s.fs.Stat(path)
	switch {
	case err == nil:
		w.origSize = fi.Size()
	case errors.Is(err, os.ErrNotExist):
		w.created = true
	default:
		return nil, err
	}

	w.f, err = s.fs.OpenFile(path, mode.Flags(), 0o644)
	if err != nil {
		return nil, err
	}
	return w, nil
}

var stagingSeq atomic.Uint64

func (s *LocalStore) createStaged(path string, mode Mode) (WritableBlob, error) {
	tmp := fmt.Sprintf("%s.tmp-%d-%d", path, os.Getpid(), stagingSeq.Add(1))

	f, err := s.fs.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	w := &localWritableBlob{fs: s.fs, f: f, path: path, tmp: tmp}

	if !mode.Truncates() {
		// "rw" keeps whatever lies past the rewritten prefix.
		if err := s.copyExisting(f, path); err != nil {
			_ = w.Abort(err)
			return nil, err
		}
	}
	return w, nil
}

func (s *LocalStore) copyExisting(dst fs.File, path string) error {
	src, err := s.fs.OpenFile(path, os.O_RDONLY, 0)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	_, err = dst.Seek(0, io.SeekStart)
	return err
}

// Put writes data to name, replacing existing content.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	w, err := s.Create(ctx, name, ModeWrite|ModeTruncate)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Abort(err)
		return err
	}
	if err := w.Sync(); err != nil {
		_ = w.Abort(err)
		return err
	}
	return w.Close()
}

type localBlob struct {
	m    *mmap.Mapping
	info Info
}

func (b *localBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	return b.m.ReadAt(p, off)
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Size() int64 {
	return b.info.Size
}

func (b *localBlob) Info() Info {
	return b.info
}

func (b *localBlob) Bytes() ([]byte, error) {
	data := b.m.Bytes()
	if data == nil && b.info.Size > 0 {
		return nil, mmap.ErrClosed
	}
	return data, nil
}

// localWritableBlob writes either to a staging file (tmp set) or in place.
type localWritableBlob struct {
	fs   fs.FileSystem
	f    fs.File
	path string
	tmp  string

	origSize int64
	created  bool
	done     bool
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *localWritableBlob) Sync() error {
	return w.f.Sync()
}

func (w *localWritableBlob) Close() error {
	if w.done {
		return nil
	}
	w.done = true

	if err := w.f.Close(); err != nil {
		w.rollback()
		return err
	}
	if w.tmp == "" {
		return nil
	}
	if err := w.fs.Rename(w.tmp, w.path); err != nil {
		_ = w.fs.Remove(w.tmp)
		return err
	}
	return nil
}

func (w *localWritableBlob) Abort(error) error {
	if w.done {
		return nil
	}
	w.done = true

	_ = w.f.Close()
	return w.rollback()
}

func (w *localWritableBlob) rollback() error {
	switch {
	case w.tmp != "":
		return w.fs.Remove(w.tmp)
	case w.created:
		return w.fs.Remove(w.path)
	default:
		return w.fs.Truncate(w.path, w.origSize)
	}
}

var (
	_ Store        = (*LocalStore)(nil)
	_ Writer       = (*LocalStore)(nil)
	_ Putter       = (*LocalStore)(nil)
	_ Mappable     = (*localBlob)(nil)
	_ WritableBlob = (*localWritableBlob)(nil)
)
