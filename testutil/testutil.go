package testutil

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/contentbridge/blobstore"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillBytes fills dst with random bytes.
// Locks only once per call.
func (r *RNG) FillBytes(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.rand.Read(dst)
}

// Payload returns n random bytes.
func (r *RNG) Payload(n int) []byte {
	p := make([]byte, n)
	r.FillBytes(p)
	return p
}

var words = []string{
	"request", "served", "cache", "miss", "upload", "bucket", "object",
	"latency", "retry", "timeout", "content", "mapped", "release",
}

// TextPayload returns n bytes of words separated by spaces and newlines.
// The result compresses well, which makes it suitable for decoding tests.
func (r *RNG) TextPayload(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := make([]byte, 0, n+16)
	for len(p) < n {
		p = append(p, words[r.rand.Intn(len(words))]...)
		if r.rand.Intn(8) == 0 {
			p = append(p, '\n')
		} else {
			p = append(p, ' ')
		}
	}
	return p[:n]
}

// LatencyStore wraps a Store and adds artificial latency to Open and to
// every read, roughly the time to first byte of an object store.
type LatencyStore struct {
	base    blobstore.Store
	latency time.Duration
}

// NewLatencyStore wraps base.
func NewLatencyStore(base blobstore.Store, latency time.Duration) *LatencyStore {
	return &LatencyStore{base: base, latency: latency}
}

// Open implements blobstore.Store.
func (s *LatencyStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if err := sleep(ctx, s.latency/2); err != nil { // metadata round trip
		return nil, err
	}
	b, err := s.base.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &LatencyBlob{base: b, latency: s.latency}, nil
}

// LatencyBlob delays every ReadAt. Optional interfaces of the wrapped blob,
// such as blobstore.Mappable, are hidden.
type LatencyBlob struct {
	base    blobstore.Blob
	latency time.Duration
}

func (b *LatencyBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := sleep(ctx, b.latency); err != nil {
		return 0, err
	}
	return b.base.ReadAt(ctx, p, off)
}

func (b *LatencyBlob) Size() int64 {
	return b.base.Size()
}

func (b *LatencyBlob) Info() blobstore.Info {
	return b.base.Info()
}

func (b *LatencyBlob) Close() error {
	return b.base.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
