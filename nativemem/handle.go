package nativemem

import (
	"fmt"
	"unsafe"
)

// Handle identifies one native allocation.
//
// The zero Handle is never returned by Allocate. Handles are plain values;
// copying one does not duplicate the allocation it names.
type Handle struct {
	ptr  unsafe.Pointer // outside the Go heap; the GC ignores it
	size int
	id   uint64 // debug identity of zero-length allocations, 0 otherwise
}

// Size returns the byte length fixed when the handle was allocated.
func (h Handle) Size() int {
	return h.size
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.ptr == nil
}

func (h Handle) String() string {
	if h.ptr == nil {
		return "nativemem.Handle{}"
	}
	return fmt.Sprintf("nativemem.Handle{addr: %#x, size: %d}", h.address(), h.size)
}

// address is the numeric form of the region start, for tracking and display.
func (h Handle) address() uintptr {
	return uintptr(h.ptr)
}

// emptyRegion backs every zero-length allocation. Its address is non-nil and
// stable; nothing ever reads or writes through it.
var emptyRegion byte

func (h Handle) isEmpty() bool {
	return h.ptr == unsafe.Pointer(&emptyRegion)
}

// bytes reinterprets the region as a slice of n bytes.
func (h Handle) bytes(n int) []byte {
	return unsafe.Slice((*byte)(h.ptr), n)
}
