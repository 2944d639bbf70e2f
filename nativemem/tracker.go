package nativemem

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// tracker is the debug-only set of live regions.
//
// Mapped regions are keyed by address. Zero-length handles all share one
// address, so each gets a fresh id from nextID and is tracked in empty.
type tracker struct {
	mu     sync.Mutex
	live   *roaring64.Bitmap
	empty  *roaring64.Bitmap
	nextID uint64
}

func newTracker() *tracker {
	return &tracker{live: roaring64.New(), empty: roaring64.New()}
}

func (t *tracker) add(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.live.CheckedAdd(uint64(h.address())) {
		violate("Allocate", h, "platform returned an address that is still live")
	}
}

// addEmpty issues the identity of a new zero-length handle. Ids start at 1.
func (t *tracker) addEmpty() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	t.empty.Add(t.nextID)
	return t.nextID
}

func (t *tracker) check(op string, h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.set(h).Contains(t.key(h)) {
		violate(op, h, "handle is not live (already released or never allocated)")
	}
}

func (t *tracker) remove(op string, h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.set(h).CheckedRemove(t.key(h)) {
		violate(op, h, "handle is not live (already released or never allocated)")
	}
}

func (t *tracker) set(h Handle) *roaring64.Bitmap {
	if h.isEmpty() {
		return t.empty
	}
	return t.live
}

// key is 0 for a zero-length handle made without debug checks; 0 is never
// issued, so such a handle is reported as not live.
func (t *tracker) key(h Handle) uint64 {
	if h.isEmpty() {
		return h.id
	}
	return uint64(h.address())
}

func (t *tracker) count() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.GetCardinality() + t.empty.GetCardinality()
}
