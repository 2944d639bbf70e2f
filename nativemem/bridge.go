package nativemem

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"
	"unsafe"

	"github.com/hupe1980/contentbridge/internal/mmap"
)

// Bridge allocates native regions and builds views over them.
//
// A Bridge holds configuration only. It keeps no record of outstanding
// allocations unless debug checks are enabled.
type Bridge struct {
	acquirer MemoryAcquirer
	metrics  MetricsCollector
	logger   *slog.Logger
	tracker  *tracker
}

// New creates a Bridge.
func New(opts ...Option) *Bridge {
	o := options{
		metrics: NoopMetricsCollector{},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bridge{
		acquirer: o.acquirer,
		metrics:  o.metrics,
		logger:   o.logger,
	}
	if debugBuild || o.debugChecks {
		b.tracker = newTracker()
	}
	return b
}

var (
	defaultOnce   sync.Once
	defaultBridge *Bridge
)

// Default returns the process-wide Bridge, creating it on first use.
func Default() *Bridge {
	defaultOnce.Do(func() {
		defaultBridge = New()
	})
	return defaultBridge
}

// Allocate is shorthand for Default().Allocate.
func Allocate(size int) (Handle, error) {
	return Default().Allocate(size)
}

// View is shorthand for Default().View.
func View(h Handle, size int) []byte {
	return Default().View(h, size)
}

// Release is shorthand for Default().Release.
func Release(h Handle) {
	Default().Release(h)
}

// Allocate obtains a region of exactly size bytes outside the Go heap.
// The contents are uninitialised. size 0 yields a handle to an empty region.
//
// Failure to obtain memory returns an error wrapping ErrOutOfMemory and
// leaves nothing to clean up. A negative size panics.
func (b *Bridge) Allocate(size int) (Handle, error) {
	if size < 0 {
		violate("Allocate", Handle{}, "negative size %d", size)
	}
	if size == 0 {
		h := Handle{ptr: unsafe.Pointer(&emptyRegion)}
		if b.tracker != nil {
			h.id = b.tracker.addEmpty()
		}
		b.metrics.RecordAllocate(0, nil)
		return h, nil
	}

	// Page rounding inside the platform allocator would overflow.
	if size > math.MaxInt-os.Getpagesize() {
		return Handle{}, b.fail(size, fmt.Errorf("%w: %d bytes exceeds the address space", ErrOutOfMemory, size))
	}

	if b.acquirer != nil {
		if err := b.acquirer.AcquireMemory(int64(size)); err != nil {
			return Handle{}, b.fail(size, fmt.Errorf("%w: %w", ErrOutOfMemory, err))
		}
	}

	data, err := mmap.Alloc(size)
	if err != nil {
		if b.acquirer != nil {
			b.acquirer.ReleaseMemory(int64(size))
		}
		return Handle{}, b.fail(size, fmt.Errorf("%w: %d bytes: %w", ErrOutOfMemory, size, err))
	}

	h := Handle{
		ptr:  unsafe.Pointer(unsafe.SliceData(data)),
		size: size,
	}
	if b.tracker != nil {
		b.tracker.add(h)
	}
	b.metrics.RecordAllocate(size, nil)
	return h, nil
}

func (b *Bridge) fail(size int, err error) error {
	b.metrics.RecordAllocate(size, err)
	b.logger.Debug("native allocation failed", "size", size, "error", err)
	return err
}

// View returns a slice aliasing the first size bytes of h's region.
// Nothing is copied or allocated; writes go straight to native memory.
//
// The view is valid until h is released. A zero handle, a negative size or a
// size beyond the allocation panics.
func (b *Bridge) View(h Handle, size int) []byte {
	if h.ptr == nil {
		violate("View", h, "handle was never allocated")
	}
	if size < 0 || size > h.size {
		violate("View", h, "size %d outside allocation of %d bytes", size, h.size)
	}
	if b.tracker != nil {
		b.tracker.check("View", h)
	}
	return h.bytes(size)
}

// Release returns h's region to the operating system. Every view over it
// becomes invalid. Releasing a zero handle, or a handle whose region is no
// longer mapped, panics.
//
// Zero-length handles own no region. Releasing one twice is only detected
// with debug checks enabled.
func (b *Bridge) Release(h Handle) {
	if h.ptr == nil {
		violate("Release", h, "handle was never allocated")
	}
	if b.tracker != nil {
		b.tracker.remove("Release", h)
	}
	if h.isEmpty() {
		if h.size != 0 {
			violate("Release", h, "empty region carries size %d", h.size)
		}
		b.metrics.RecordRelease(0)
		return
	}

	if err := mmap.Free(h.bytes(h.size)); err != nil {
		violate("Release", h, "platform allocator rejected the region: %v", err)
	}
	if b.acquirer != nil {
		b.acquirer.ReleaseMemory(int64(h.size))
	}
	b.metrics.RecordRelease(h.size)
}
