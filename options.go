package contentbridge

import (
	"github.com/hupe1980/contentbridge/blobstore"
	"github.com/hupe1980/contentbridge/catalog"
	"github.com/hupe1980/contentbridge/nativemem"
	"github.com/hupe1980/contentbridge/resource"
)

// DefaultChunkSize is the size of each ranged read when a blob cannot be
// downloaded or mapped in one go.
const DefaultChunkSize = 1 << 20

// DefaultMaxDecodedSize caps the decoded length of a compressed blob.
const DefaultMaxDecodedSize = 256 << 20

// DefaultPutThreshold is the largest replacing write sent as one Put.
const DefaultPutThreshold = 8 << 20

type options struct {
	stores           map[string]blobstore.Store
	catalog          catalog.Catalog
	bridge           *nativemem.Bridge
	resource         *resource.Controller
	logger           *Logger
	metricsCollector MetricsCollector
	decompress       bool
	chunkSize        int
	maxDecodedSize   int64
	putThreshold     int
}

// Option configures a Resolver.
type Option func(*options)

// WithStore registers store for URIs with the given scheme.
// A later registration for the same scheme replaces the earlier one.
func WithStore(scheme string, store blobstore.Store) Option {
	return func(o *options) {
		if o.stores == nil {
			o.stores = make(map[string]blobstore.Store)
		}
		o.stores[scheme] = store
	}
}

// WithCatalog sets the catalog consulted for display names and MIME types
// before the blob's own metadata.
func WithCatalog(c catalog.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithBridge sets the allocator bridge that owns every content buffer.
// When unset, a bridge charged against the resource controller is created,
// or nativemem.Default() is used if there is no controller either.
func WithBridge(b *nativemem.Bridge) Option {
	return func(o *options) {
		o.bridge = b
	}
}

// WithResourceController sets the controller that bounds native memory,
// concurrent transfers and copy throughput.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resource = rc
	}
}

// WithLogger sets the logger for content operations.
// If nil is passed, uses NoopLogger (no logging).
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, uses NoopMetricsCollector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithDecompression enables transparent decoding of gzip, zstd and lz4
// content. Compressed blobs are detected by their magic bytes.
func WithDecompression(enabled bool) Option {
	return func(o *options) {
		o.decompress = enabled
	}
}

// WithChunkSize sets the ranged read size. Non-positive values are ignored.
func WithChunkSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// WithMaxDecodedSize caps how large a decompressed blob may grow. The
// resource controller's memory limit applies as well when it is smaller.
// Non-positive values are ignored.
func WithMaxDecodedSize(size int64) Option {
	return func(o *options) {
		if size > 0 {
			o.maxDecodedSize = size
		}
	}
}

// WithPutThreshold sets the largest replacing write sent as a single Put.
// Larger writes are streamed through the store's Writer, which for object
// stores means a multipart upload. Negative values are ignored; zero
// streams every non-empty write.
func WithPutThreshold(size int) Option {
	return func(o *options) {
		if size >= 0 {
			o.putThreshold = size
		}
	}
}
