package contentbridge

import (
	"github.com/hupe1980/contentbridge/nativemem"
)

// Content is a fetched payload held in native memory.
//
// The bytes live outside the Go heap until Release is called. Bytes must not
// be used after Release, and Release must be called exactly once.
type Content struct {
	// Handle owns the native buffer.
	Handle nativemem.Handle
	// Length is the number of content bytes in the buffer.
	Length int
	// MimeType is the resolved media type, never empty.
	MimeType string
	// FileName is the display name of the content.
	FileName string

	r *Resolver
}

// Bytes returns a zero-copy view over the content.
func (c *Content) Bytes() []byte {
	return c.r.bridge.View(c.Handle, c.Length)
}

// Release frees the native buffer.
func (c *Content) Release() {
	c.r.ReleaseBuffer(c.Handle)
}
