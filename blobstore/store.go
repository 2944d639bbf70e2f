package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"time"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrUnsupportedMode is returned when a store cannot honour a write mode,
// for example appending to an immutable object.
var ErrUnsupportedMode = errors.New("blobstore: unsupported mode")

// ErrAborted is the cause passed on by WritableBlob.Abort when the caller
// gives none.
var ErrAborted = errors.New("blobstore: write aborted")

// Info describes a blob.
type Info struct {
	// Name is the last path element of the blob.
	Name string
	// Size is the blob length in bytes.
	Size int64
	// ContentType is the MIME type recorded by the backend, if any.
	ContentType string
	// ModTime is the last modification time, zero when unknown.
	ModTime time.Time
}

// Store opens blobs for reading. Implementations must be safe for concurrent use.
type Store interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// Writer is implemented by stores that accept writes.
type Writer interface {
	// Create opens name for writing with the given mode.
	Create(ctx context.Context, name string, mode Mode) (WritableBlob, error)
}

// Putter is implemented by stores that can write a whole blob in one call.
type Putter interface {
	Put(ctx context.Context, name string, data []byte) error
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at off. It follows io.ReaderAt
	// semantics: a short read returns io.EOF.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	// Info returns the blob metadata.
	Info() Info
	io.Closer
}

// WritableBlob is a blob open for writing. Data is committed on Close.
//
// Abort ends the write without committing: the blob keeps the content it had
// before Create, or stays absent if it did not exist. Calling Close after
// Abort, or Abort after Close, is a no-op.
type WritableBlob interface {
	io.WriteCloser
	Sync() error
	Abort(cause error) error
}

// Downloader is an optional interface for Blobs that can fetch their whole
// content in parallel parts. Every part lands at its own offset in w.
type Downloader interface {
	DownloadTo(ctx context.Context, w io.WriterAt) (int64, error)
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}
