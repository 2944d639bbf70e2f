// Package contentbridge fetches content by URI into memory that lives outside
// the Go heap, and writes content back to the stores it came from.
//
// Large payloads are read straight into native buffers owned by a
// nativemem.Bridge. The caller gets a zero-copy []byte view and returns the
// buffer explicitly, so the garbage collector never scans or copies the bytes.
//
// # Quick Start
//
//	r, _ := contentbridge.New()
//	c, err := r.GetContent(ctx, "file:///var/data/report.pdf")
//	if err != nil {
//	    return err
//	}
//	defer c.Release()
//	fmt.Println(c.FileName, c.MimeType, len(c.Bytes()))
//
// # Stores
//
// Stores are registered per URI scheme. The "file" scheme is always served
// from the local file system:
//
//	s3Store, _ := s3.New(ctx, s3.WithRegion("eu-central-1"))
//	r, _ := contentbridge.New(
//	    contentbridge.WithStore("s3", s3Store),
//	    contentbridge.WithStore("mem", blobstore.NewMemoryStore()),
//	)
//
// S3 and MinIO blobs are downloaded in parallel parts directly into the native
// view. Local files are memory mapped and copied chunk by chunk.
//
// # Metadata
//
// Display name and MIME type come from the catalog first (see WithCatalog),
// then from the blob's own metadata, then from the file extension.
//
// # Resource Limits
//
// A resource controller caps native memory, concurrent transfers and copy
// throughput:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:       512 << 20,
//	    MaxConcurrentTransfers: 8,
//	})
//	r, _ := contentbridge.New(contentbridge.WithResourceController(rc))
//
// Fetches that would exceed the memory limit fail with ErrOutOfMemory.
//
// # Ownership
//
// Every Content returned by GetContent or GetContents must be released exactly
// once. Releasing twice, or viewing released content, is a contract violation
// that panics with a *nativemem.ContractViolation.
package contentbridge
