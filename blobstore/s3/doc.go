// Package s3 provides an Amazon S3 implementation of the blobstore interfaces.
//
// # Usage
//
//	store, err := s3.New(ctx,
//	    s3.WithRegion("eu-central-1"),
//	    s3.WithPrefix("uploads/"),
//	)
//
//	r, err := contentbridge.New(contentbridge.WithStore("s3", store))
//	c, err := r.GetContent(ctx, "s3://my-bucket/report.pdf")
//
// Without WithBucket, the first path segment of every name is the bucket.
//
// # Features
//
//   - HeadObject metadata (size, content type, modification time)
//   - Ranged reads pinned to the ETag seen at open
//   - Parallel part downloads straight into an io.WriterAt
//   - Streaming multipart uploads and single-shot puts with CRC32C checksums
package s3
