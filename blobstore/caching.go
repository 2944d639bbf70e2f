package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/contentbridge/internal/cache"
)

// DefaultCacheBlockSize is the block size of a CachingStore when none is given.
const DefaultCacheBlockSize = 256 << 10

// maxFetchBlocks bounds a single backend read, so a cold read of a large
// range fans out into parallel requests.
const maxFetchBlocks = 16

// blockKey identifies one cached block. The generation and the blob's size
// and modification time keep blocks of a rewritten blob apart.
type blockKey struct {
	name    string
	gen     uint64
	size    int64
	modTime int64
	block   int64
}

// CachingStore wraps a Store and keeps recently read blocks in memory.
//
// Cached blobs expose ReadAt only: Downloader and Mappable of the wrapped
// blobs are hidden so every read goes through the cache. Writes pass
// through to the wrapped store and drop the blob's cached blocks.
type CachingStore struct {
	inner     Store
	blocks    *cache.LRU[blockKey, []byte]
	blockSize int64

	mu   sync.Mutex
	gens map[string]uint64
}

// NewCachingStore creates a CachingStore holding at most capacity blocks of
// blockSize bytes. blockSize defaults to DefaultCacheBlockSize if <= 0.
func NewCachingStore(inner Store, capacity int, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultCacheBlockSize
	}
	return &CachingStore{
		inner:     inner,
		blocks:    cache.NewLRU[blockKey, []byte](capacity),
		blockSize: blockSize,
		gens:      make(map[string]uint64),
	}
}

// Open opens a blob whose reads are served from the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	info := b.Info()
	return &CachingBlob{
		inner:     b,
		blocks:    s.blocks,
		blockSize: s.blockSize,
		key: blockKey{
			name:    name,
			gen:     s.generation(name),
			size:    b.Size(),
			modTime: info.ModTime.UnixNano(),
		},
	}, nil
}

// Create forwards to the wrapped store's Writer.
func (s *CachingStore) Create(ctx context.Context, name string, mode Mode) (WritableBlob, error) {
	w, ok := s.inner.(Writer)
	if !ok {
		return nil, fmt.Errorf("%w: wrapped store is read-only", ErrUnsupportedMode)
	}
	wb, err := w.Create(ctx, name, mode)
	if err != nil {
		return nil, err
	}
	return &invalidatingBlob{WritableBlob: wb, store: s, name: name}, nil
}

// Put forwards to the wrapped store, using Create when it has no Putter.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	defer s.invalidate(name)

	if p, ok := s.inner.(Putter); ok {
		return p.Put(ctx, name, data)
	}

	wb, err := s.Create(ctx, name, ModeWrite|ModeTruncate)
	if err != nil {
		return err
	}
	if _, err := wb.Write(data); err != nil {
		_ = wb.Abort(err)
		return err
	}
	return wb.Close()
}

// Stats returns the block cache hit and miss counts.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.blocks.Stats()
}

func (s *CachingStore) generation(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[name]
}

// invalidate moves name to a new generation. Blocks of the old one are
// never looked up again and age out of the LRU.
func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[name]++
}

type invalidatingBlob struct {
	WritableBlob
	store *CachingStore
	name  string
}

func (w *invalidatingBlob) Close() error {
	defer w.store.invalidate(w.name)
	return w.WritableBlob.Close()
}

// CachingBlob wraps a Blob and uses the block cache for reads.
type CachingBlob struct {
	inner     Blob
	blocks    *cache.LRU[blockKey, []byte]
	blockSize int64
	key       blockKey
}

func (b *CachingBlob) Close() error {
	return b.inner.Close()
}

func (b *CachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *CachingBlob) Info() Info {
	return b.inner.Info()
}

// ReadAt follows io.ReaderAt semantics: reads that end past the blob return
// the available bytes and io.EOF.
func (b *CachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	want := p
	if rem := size - off; int64(len(p)) > rem {
		want = p[:rem]
	}

	startBlock := off / b.blockSize
	endBlock := (off + int64(len(want)) - 1) / b.blockSize

	fetched, err := b.fill(ctx, startBlock, endBlock)
	if err != nil {
		return 0, err
	}

	total := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		data, ok := fetched[blk]
		if !ok {
			data, ok = b.blocks.Get(b.blockKey(blk))
		}
		if !ok {
			// Evicted between fill and copy.
			if data, err = b.readBlock(ctx, blk); err != nil {
				return total, err
			}
		}

		blkStart := blk * b.blockSize
		lo := max(blkStart, off)
		hi := min(blkStart+b.blockSize, off+int64(len(want)))
		if int64(len(data)) < hi-blkStart {
			return total, fmt.Errorf("blobstore: block %d of %q: %w", blk, b.key.name, io.ErrUnexpectedEOF)
		}
		total += copy(want[lo-off:hi-off], data[lo-blkStart:])
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

func (b *CachingBlob) blockKey(blk int64) blockKey {
	k := b.key
	k.block = blk
	return k
}

type blockRun struct {
	start, count int64
}

// fill loads the missing blocks in [startBlock, endBlock]. Contiguous misses
// are coalesced into runs of at most maxFetchBlocks, fetched in parallel.
// The blocks it loaded are returned as well, so a small cache cannot evict
// them before the caller copies them out.
func (b *CachingBlob) fill(ctx context.Context, startBlock, endBlock int64) (map[int64][]byte, error) {
	var runs []blockRun
	for blk := startBlock; blk <= endBlock; blk++ {
		if _, ok := b.blocks.Get(b.blockKey(blk)); ok {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].start+runs[n-1].count == blk && runs[n-1].count < maxFetchBlocks {
			runs[n-1].count++
			continue
		}
		runs = append(runs, blockRun{start: blk, count: 1})
	}
	if len(runs) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	fetched := make(map[int64][]byte)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for _, run := range runs {
		g.Go(func() error {
			blocks, err := b.readRun(gctx, run)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for i, data := range blocks {
				blk := run.start + int64(i)
				fetched[blk] = data
				b.blocks.Set(b.blockKey(blk), data)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fetched, nil
}

// readRun reads a run with one backend request and splits it into blocks.
func (b *CachingBlob) readRun(ctx context.Context, run blockRun) ([][]byte, error) {
	start := run.start * b.blockSize
	n := min(run.count*b.blockSize, b.Size()-start)
	if n <= 0 {
		return nil, nil
	}

	buf := make([]byte, n)
	read, err := b.inner.ReadAt(ctx, buf, start)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	buf = buf[:read]

	blocks := make([][]byte, 0, run.count)
	for off := int64(0); off < int64(len(buf)); off += b.blockSize {
		// Copy so a cached block does not pin the whole run.
		blocks = append(blocks, bytes.Clone(buf[off:min(off+b.blockSize, int64(len(buf)))]))
	}
	return blocks, nil
}

func (b *CachingBlob) readBlock(ctx context.Context, blk int64) ([]byte, error) {
	blocks, err := b.readRun(ctx, blockRun{start: blk, count: 1})
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	b.blocks.Set(b.blockKey(blk), blocks[0])
	return blocks[0], nil
}

var (
	_ Store  = (*CachingStore)(nil)
	_ Writer = (*CachingStore)(nil)
	_ Putter = (*CachingStore)(nil)
)
