package contentbridge

import (
	"errors"
	"fmt"

	"github.com/hupe1980/contentbridge/blobstore"
	"github.com/hupe1980/contentbridge/nativemem"
)

var (
	// ErrClosed is returned by operations on a closed Resolver.
	ErrClosed = errors.New("contentbridge: resolver is closed")

	// ErrInvalidURI is returned when a content URI cannot be parsed.
	ErrInvalidURI = errors.New("invalid content uri")

	// ErrUnsupportedScheme is returned when no store is registered for a URI scheme.
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")

	// ErrReadOnly is returned when writing to a store that does not accept writes.
	ErrReadOnly = errors.New("store is read-only")

	// ErrContentChanged is returned when a blob's length differs from the
	// length reported when it was opened.
	ErrContentChanged = errors.New("content changed during transfer")

	// ErrNotFound is returned when the content does not exist.
	ErrNotFound = blobstore.ErrNotFound

	// ErrUnsupportedMode is returned for unknown write modes and for modes
	// the backing store cannot honour.
	ErrUnsupportedMode = blobstore.ErrUnsupportedMode

	// ErrOutOfMemory is returned when a native buffer for the content cannot
	// be reserved.
	ErrOutOfMemory = nativemem.ErrOutOfMemory
)

// URIError records a failed content operation and the URI it was applied to.
//
// The underlying error can be accessed via errors.Unwrap.
type URIError struct {
	Op  string
	URI string
	Err error
}

func (e *URIError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URI, e.Err)
}

func (e *URIError) Unwrap() error { return e.Err }

func uriError(op, uri string, err error) error {
	if err == nil {
		return nil
	}
	return &URIError{Op: op, URI: uri, Err: err}
}
