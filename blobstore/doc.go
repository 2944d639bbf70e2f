// Package blobstore provides storage abstraction for content addressed by URI.
//
// A Store opens blobs for reading; stores that accept writes also implement
// Writer (streaming, mode-aware) and Putter (whole blob). Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads
//   - MemoryStore: in-process map, for tests and ephemeral content
//   - s3.Store: Amazon S3 with range reads, parallel downloads and uploads
//   - minio.Store: MinIO and other S3-compatible servers
//   - CachingStore: block cache in front of any Store
//
// # Optional Interfaces
//
// Blobs may implement Downloader to fetch every part concurrently straight
// into an io.WriterAt, or Mappable to expose their bytes without a copy.
//
//	type Downloader interface {
//	    DownloadTo(ctx context.Context, w io.WriterAt) (int64, error)
//	}
//
// # Write Modes
//
// ParseMode accepts "w", "wt", "wa", "rw" and "rwt". Object stores can only
// replace whole objects and return ErrUnsupportedMode for the others.
package blobstore
