package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/contentbridge/blobstore"
)

// blob implements blobstore.Blob and blobstore.Downloader.
type blob struct {
	client Client
	bucket string
	key    string
	etag   string
	info   blobstore.Info

	partSize    int64
	concurrency int
}

func (b *blob) Close() error {
	return nil
}

func (b *blob) Size() int64 {
	return b.info.Size
}

func (b *blob) Info() blobstore.Info {
	return b.info
}

func (b *blob) getInput() *s3.GetObjectInput {
	in := &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	}
	// Pin reads to the version seen by HeadObject.
	if b.etag != "" {
		in.IfMatch = aws.String(b.etag)
	}
	return in
}

// ReadAt reads len(p) bytes starting at offset off with a ranged GET.
func (b *blob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off >= b.info.Size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	end := min(off+int64(len(p))-1, b.info.Size-1)

	in := b.getInput()
	in.Range = aws.String(fmt.Sprintf("bytes=%d-%d", off, end))

	resp, err := b.client.GetObject(ctx, in)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	want := int(end - off + 1)
	n, err := io.ReadFull(resp.Body, p[:want])
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return n, io.EOF
		}
		return n, err
	}
	if want < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// DownloadTo fetches the object in parallel parts, each written at its own
// offset in w.
func (b *blob) DownloadTo(ctx context.Context, w io.WriterAt) (int64, error) {
	d := manager.NewDownloader(b.client, func(d *manager.Downloader) {
		d.PartSize = b.partSize
		d.Concurrency = b.concurrency
	})
	return d.Download(ctx, w, b.getInput())
}

var (
	_ blobstore.Blob       = (*blob)(nil)
	_ blobstore.Downloader = (*blob)(nil)
)
