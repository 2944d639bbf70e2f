package contentbridge

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/contentbridge/blobstore"
	"github.com/hupe1980/contentbridge/catalog"
	"github.com/hupe1980/contentbridge/internal/compress"
	"github.com/hupe1980/contentbridge/internal/conv"
	"github.com/hupe1980/contentbridge/nativemem"
	"github.com/hupe1980/contentbridge/resource"
)

// Resolver fetches content by URI into native memory and writes content back
// to the backing stores. It is safe for concurrent use.
type Resolver struct {
	stores     map[string]blobstore.Store
	catalog    catalog.Catalog
	bridge     *nativemem.Bridge
	rc         *resource.Controller
	logger     *Logger
	metrics    MetricsCollector
	decompress bool
	chunkSize  int
	maxDecoded int64
	putLimit   int

	closed atomic.Bool
}

// New creates a Resolver. The "file" scheme is served from the local file
// system unless another store is registered for it.
func New(optFns ...Option) (*Resolver, error) {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		chunkSize:        DefaultChunkSize,
		maxDecodedSize:   DefaultMaxDecodedSize,
		putThreshold:     DefaultPutThreshold,
	}

	for _, fn := range optFns {
		fn(&o)
	}

	stores := make(map[string]blobstore.Store, len(o.stores)+1)
	for scheme, s := range o.stores {
		if scheme == "" || strings.ContainsAny(scheme, ":/") {
			return nil, fmt.Errorf("contentbridge: invalid scheme %q", scheme)
		}
		if s == nil {
			return nil, fmt.Errorf("contentbridge: nil store for scheme %q", scheme)
		}
		stores[scheme] = s
	}
	if _, ok := stores["file"]; !ok {
		stores["file"] = blobstore.NewLocalStore("")
	}

	bridge := o.bridge
	if bridge == nil {
		if o.resource != nil {
			bridge = nativemem.New(
				nativemem.WithMemoryAcquirer(o.resource),
				nativemem.WithLogger(o.logger.Logger),
			)
		} else {
			bridge = nativemem.Default()
		}
	}

	return &Resolver{
		stores:     stores,
		catalog:    o.catalog,
		bridge:     bridge,
		rc:         o.resource,
		logger:     o.logger,
		metrics:    o.metricsCollector,
		decompress: o.decompress,
		chunkSize:  o.chunkSize,
		maxDecoded: o.maxDecodedSize,
		putLimit:   o.putThreshold,
	}, nil
}

// Bridge returns the bridge that owns every buffer handed out by r.
func (r *Resolver) Bridge() *nativemem.Bridge {
	return r.bridge
}

// GetContent reads the content at uri into an exactly sized native buffer.
// The caller owns the returned Content and must Release it.
func (r *Resolver) GetContent(ctx context.Context, uri string) (*Content, error) {
	start := time.Now()

	c, err := r.getContent(ctx, uri)

	var length int
	var mimeType string
	if c != nil {
		length, mimeType = c.Length, c.MimeType
	}
	r.metrics.RecordGetContent(length, time.Since(start), err)
	r.logger.LogGetContent(ctx, uri, length, mimeType, err)

	if err != nil {
		return nil, uriError("get", uri, err)
	}
	return c, nil
}

func (r *Resolver) getContent(ctx context.Context, raw string) (*Content, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}

	u, store, err := r.resolve(raw)
	if err != nil {
		return nil, err
	}

	if err := r.rc.AcquireTransfer(ctx); err != nil {
		return nil, err
	}
	defer r.rc.ReleaseTransfer()

	blob, err := store.Open(ctx, u.Location)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	format := compress.None
	if r.decompress {
		if format, err = sniff(ctx, blob); err != nil {
			return nil, err
		}
	}

	name, mimeType := r.describe(ctx, u, blob.Info(), format)

	var (
		h    nativemem.Handle
		size int
	)
	if format != compress.None {
		h, size, err = r.decode(ctx, blob, format)
	} else {
		h, size, err = r.fetch(ctx, blob)
	}
	if err != nil {
		return nil, err
	}

	return &Content{
		Handle:   h,
		Length:   size,
		MimeType: mimeType,
		FileName: name,
		r:        r,
	}, nil
}

// GetContents fetches every uri concurrently, bounded by the resource
// controller's transfer slots. The result is in uri order. If any fetch
// fails, the buffers already fetched are released and only the error is
// returned.
func (r *Resolver) GetContents(ctx context.Context, uris ...string) ([]*Content, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}

	contents := make([]*Content, len(uris))

	g, gctx := errgroup.WithContext(ctx)
	if n := r.rc.MaxConcurrentTransfers(); n > 0 {
		g.SetLimit(int(n))
	}

	for i, uri := range uris {
		g.Go(func() error {
			c, err := r.GetContent(gctx, uri)
			if err != nil {
				return err
			}
			contents[i] = c
			return nil
		})
	}

	err := g.Wait()
	r.logger.LogGetContents(ctx, len(uris), err)
	if err != nil {
		for _, c := range contents {
			if c != nil {
				c.Release()
			}
		}
		return nil, err
	}
	return contents, nil
}

// WriteContent writes data to uri. mode is one of "w", "wt", "wa", "rw" or
// "rwt"; "w" truncates like "wt". Replacing writes up to the put threshold
// go through a single Put when the store supports it; everything else is
// streamed in chunks. A failed write leaves the target as it was.
func (r *Resolver) WriteContent(ctx context.Context, uri, mode string, data []byte) error {
	start := time.Now()

	err := r.writeContent(ctx, uri, mode, data)

	n := len(data)
	if err != nil {
		n = 0
	}
	r.metrics.RecordWriteContent(n, time.Since(start), err)
	r.logger.LogWriteContent(ctx, uri, mode, n, err)

	return uriError("write", uri, err)
}

func (r *Resolver) writeContent(ctx context.Context, raw, modeStr string, data []byte) error {
	if r.closed.Load() {
		return ErrClosed
	}

	mode, err := blobstore.ParseMode(modeStr)
	if err != nil {
		return err
	}

	u, store, err := r.resolve(raw)
	if err != nil {
		return err
	}

	if err := r.rc.AcquireTransfer(ctx); err != nil {
		return err
	}
	defer r.rc.ReleaseTransfer()

	p, canPut := store.(blobstore.Putter)
	w, canCreate := store.(blobstore.Writer)

	if canPut && mode.Replaces() && (len(data) <= r.putLimit || !canCreate) {
		if err := r.rc.AcquireIO(ctx, len(data)); err != nil {
			return err
		}
		return p.Put(ctx, u.Location, data)
	}
	if !canCreate {
		return fmt.Errorf("%w: scheme %q", ErrReadOnly, u.Scheme)
	}

	wb, err := w.Create(ctx, u.Location, mode)
	if err != nil {
		return err
	}
	if err := r.stream(ctx, wb, data); err != nil {
		if aerr := wb.Abort(err); aerr != nil {
			r.logger.WarnContext(ctx, "abort failed", "uri", u.String(), "error", aerr)
		}
		return err
	}
	return wb.Close()
}

// stream writes data to wb in rate-limited chunks and syncs it.
func (r *Resolver) stream(ctx context.Context, wb blobstore.WritableBlob, data []byte) error {
	rw := resource.NewRateLimitedWriter(ctx, wb, r.rc)
	for off := 0; off < len(data); off += r.chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(off+r.chunkSize, len(data))
		if _, err := rw.Write(data[off:end]); err != nil {
			return err
		}
	}
	return wb.Sync()
}

// ReleaseBuffer releases a buffer returned by GetContent or GetContents.
// Releasing the same buffer twice is a contract violation and panics.
// ReleaseBuffer keeps working after Close so outstanding buffers can be
// returned.
func (r *Resolver) ReleaseBuffer(h nativemem.Handle) {
	size := h.Size()
	r.bridge.Release(h)
	r.metrics.RecordRelease(size)
	r.logger.LogRelease(context.Background(), size)
}

// Close stops r from serving new requests. The first call returns nil,
// later calls return ErrClosed.
func (r *Resolver) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}

func (r *Resolver) resolve(raw string) (URI, blobstore.Store, error) {
	u, err := ParseURI(raw)
	if err != nil {
		return URI{}, nil, err
	}
	store, ok := r.stores[u.Scheme]
	if !ok {
		return URI{}, nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return u, store, nil
}

// describe resolves the display name and MIME type. The catalog wins over the
// blob's own metadata, which wins over the file extension. A content type
// recorded for a compressed blob describes the compressed form and is
// ignored when the blob is decoded.
func (r *Resolver) describe(ctx context.Context, u URI, info blobstore.Info, format compress.Format) (string, string) {
	name := info.Name
	if name == "" {
		name = path.Base(u.Location)
	}
	mimeType := info.ContentType

	if format != compress.None {
		name = stripCompressedExt(name)
		mimeType = ""
	}

	if r.catalog != nil {
		e, err := r.catalog.Lookup(ctx, u.String())
		switch {
		case err == nil:
			if e.DisplayName != "" {
				name = e.DisplayName
			}
			if e.MimeType != "" {
				mimeType = e.MimeType
			}
		case !errors.Is(err, catalog.ErrNotFound):
			r.logger.WarnContext(ctx, "catalog lookup failed", "uri", u.String(), "error", err)
		}
	}

	if mimeType == "" {
		mimeType = catalog.MimeTypeByName(name)
	}
	return name, mimeType
}

func stripCompressedExt(name string) string {
	for _, ext := range []string{".gz", ".zst", ".lz4"} {
		if trimmed, ok := strings.CutSuffix(name, ext); ok && trimmed != "" {
			return trimmed
		}
	}
	return name
}

// fetch copies blob into an allocation of exactly blob.Size() bytes.
func (r *Resolver) fetch(ctx context.Context, blob blobstore.Blob) (nativemem.Handle, int, error) {
	size, err := conv.Int64ToInt(blob.Size())
	if err != nil {
		return nativemem.Handle{}, 0, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	h, err := r.bridge.Allocate(size)
	if err != nil {
		return nativemem.Handle{}, 0, err
	}

	if err := r.copyInto(ctx, blob, r.bridge.View(h, size)); err != nil {
		r.bridge.Release(h)
		return nativemem.Handle{}, 0, err
	}
	return h, size, nil
}

// copyInto fills view with the blob's bytes, preferring a parallel download,
// then a mapped copy, then ranged reads.
func (r *Resolver) copyInto(ctx context.Context, blob blobstore.Blob, view []byte) error {
	size := len(view)
	if size == 0 {
		return nil
	}

	if d, ok := blob.(blobstore.Downloader); ok {
		n, err := d.DownloadTo(ctx, &viewWriterAt{ctx: ctx, view: view, rc: r.rc})
		if err != nil {
			return err
		}
		if n != int64(size) {
			return fmt.Errorf("%w: downloaded %d of %d bytes", ErrContentChanged, n, size)
		}
		return nil
	}

	if m, ok := blob.(blobstore.Mappable); ok {
		if data, err := m.Bytes(); err == nil {
			if len(data) != size {
				return fmt.Errorf("%w: mapped %d of %d bytes", ErrContentChanged, len(data), size)
			}
			for off := 0; off < size; off += r.chunkSize {
				end := min(off+r.chunkSize, size)
				if err := r.rc.AcquireIO(ctx, end-off); err != nil {
					return err
				}
				copy(view[off:end], data[off:end])
			}
			return nil
		}
	}

	for off := 0; off < size; {
		end := min(off+r.chunkSize, size)
		if err := r.rc.AcquireIO(ctx, end-off); err != nil {
			return err
		}
		n, err := blob.ReadAt(ctx, view[off:end], int64(off))
		off += n
		switch {
		case err == nil && n == 0:
			return io.ErrNoProgress
		case errors.Is(err, io.EOF):
			if off < size {
				return fmt.Errorf("%w: read %d of %d bytes", ErrContentChanged, off, size)
			}
		case err != nil:
			return err
		}
	}
	return nil
}

// decode decompresses blob into a spool and copies the result into an
// exactly sized allocation. The decoded length is unknown up front, so the
// spool is capped by the max decoded size and the controller's memory limit.
func (r *Resolver) decode(ctx context.Context, blob blobstore.Blob, format compress.Format) (nativemem.Handle, int, error) {
	sr := io.NewSectionReader(blobReaderAt{ctx: ctx, blob: blob}, 0, blob.Size())
	src := bufio.NewReaderSize(resource.NewRateLimitedReader(ctx, sr, r.rc), r.chunkSize)

	dec, err := compress.NewReader(format, src)
	if err != nil {
		return nativemem.Handle{}, 0, err
	}
	defer dec.Close()

	limit := r.maxDecoded
	if m := r.rc.MemoryLimit(); m > 0 && m < limit {
		limit = m
	}

	var spool bytes.Buffer
	n, err := spool.ReadFrom(io.LimitReader(dec, limit+1))
	if err != nil {
		return nativemem.Handle{}, 0, fmt.Errorf("decode %s: %w", format, err)
	}
	if n > limit {
		return nativemem.Handle{}, 0, fmt.Errorf("%w: decoded content exceeds %d bytes", ErrOutOfMemory, limit)
	}

	size := spool.Len()
	h, err := r.bridge.Allocate(size)
	if err != nil {
		return nativemem.Handle{}, 0, err
	}
	copy(r.bridge.View(h, size), spool.Bytes())
	return h, size, nil
}

func sniff(ctx context.Context, blob blobstore.Blob) (compress.Format, error) {
	if blob.Size() < compress.MagicLen {
		return compress.None, nil
	}
	var magic [compress.MagicLen]byte
	if _, err := blob.ReadAt(ctx, magic[:], 0); err != nil && !errors.Is(err, io.EOF) {
		return compress.None, err
	}
	return compress.Detect(magic[:]), nil
}

type blobReaderAt struct {
	ctx  context.Context
	blob blobstore.Blob
}

func (b blobReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return b.blob.ReadAt(b.ctx, p, off)
}

// viewWriterAt lets a Downloader write its parts straight into a native view.
type viewWriterAt struct {
	ctx  context.Context
	view []byte
	rc   *resource.Controller
}

func (w *viewWriterAt) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(w.view)) || int64(len(p)) > int64(len(w.view))-off {
		return 0, fmt.Errorf("%w: %d bytes at offset %d overflow a %d-byte buffer", ErrContentChanged, len(p), off, len(w.view))
	}
	if err := w.rc.AcquireIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return copy(w.view[off:], p), nil
}
