// Package minio provides a blobstore implementation using the MinIO client.
//
// MinIO is an S3-compatible object store. This package uses the official
// MinIO Go client, so it also works against Ceph, SeaweedFS and Garage
// without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minioblob.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := contentbridge.New(contentbridge.WithStore("minio", store))
//	c, err := r.GetContent(ctx, "minio://my-bucket/photos/cat.jpg")
//
// Without WithBucket, the first path segment of every name is the bucket.
// Writes replace whole objects; append and read-write modes return
// blobstore.ErrUnsupportedMode.
package minio
