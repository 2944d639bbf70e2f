package blobstore

import (
	"bytes"
	"context"
	"path"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and ephemeral content.
// It stores blobs in memory without any filesystem dependency.
// Thread-safe for concurrent reads and writes.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryEntry
}

type memoryEntry struct {
	data        []byte
	contentType string
	modTime     time.Time
}

// NewMemoryStore creates a new in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string]memoryEntry),
	}
}

// Open opens a blob for reading.
func (m *MemoryStore) Open(_ context.Context, name string) (Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}

	// Stored slices are never mutated in place, so readers can share them.
	return &memoryBlob{
		data: e.data,
		info: Info{
			Name:        path.Base(name),
			Size:        int64(len(e.data)),
			ContentType: e.contentType,
			ModTime:     e.modTime,
		},
	}, nil
}

// Create opens a writable blob. Content becomes visible on Close.
func (m *MemoryStore) Create(_ context.Context, name string, mode Mode) (WritableBlob, error) {
	w := &memoryWritableBlob{store: m, name: name}

	if !mode.Truncates() {
		m.mu.RLock()
		if e, ok := m.blobs[name]; ok {
			w.buf.Write(e.data)
		}
		m.mu.RUnlock()
		// "rw" overwrites from offset 0 and keeps any tail beyond the new bytes.
		w.overwrite = !mode.Appends()
	}
	return w, nil
}

// Put writes a blob atomically.
func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	m.PutWithType(name, data, "")
	return nil
}

// PutWithType stores data together with a content type.
func (m *MemoryStore) PutWithType(name string, data []byte, contentType string) {
	copied := bytes.Clone(data)
	if copied == nil {
		copied = []byte{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = memoryEntry{data: copied, contentType: contentType, modTime: time.Now()}
}

// Delete removes a blob.
func (m *MemoryStore) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, name)
}

// memoryBlob implements Blob for in-memory data.
type memoryBlob struct {
	data []byte
	info Info
}

func (b *memoryBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return bytes.NewReader(b.data).ReadAt(p, off)
}

func (b *memoryBlob) Close() error {
	return nil
}

func (b *memoryBlob) Size() int64 {
	return int64(len(b.data))
}

func (b *memoryBlob) Info() Info {
	return b.info
}

func (b *memoryBlob) Bytes() ([]byte, error) {
	return b.data, nil
}

// memoryWritableBlob implements WritableBlob for in-memory writes.
type memoryWritableBlob struct {
	store     *MemoryStore
	name      string
	buf       bytes.Buffer
	overwrite bool
	pos       int
	done      bool
}

func (w *memoryWritableBlob) Write(p []byte) (int, error) {
	if !w.overwrite {
		return w.buf.Write(p)
	}

	data := w.buf.Bytes()
	n := copy(data[w.pos:], p)
	w.pos += n
	if n < len(p) {
		w.buf.Write(p[n:])
		w.pos += len(p) - n
	}
	return len(p), nil
}

func (w *memoryWritableBlob) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	w.store.PutWithType(w.name, w.buf.Bytes(), "")
	return nil
}

func (w *memoryWritableBlob) Abort(error) error {
	w.done = true
	w.buf.Reset()
	return nil
}

func (w *memoryWritableBlob) Sync() error {
	return nil
}

var (
	_ Store    = (*MemoryStore)(nil)
	_ Writer   = (*MemoryStore)(nil)
	_ Putter   = (*MemoryStore)(nil)
	_ Mappable = (*memoryBlob)(nil)
)
