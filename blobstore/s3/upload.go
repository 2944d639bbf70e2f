package s3

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/contentbridge/blobstore"
	"github.com/hupe1980/contentbridge/internal/hash"
)

// streamingWritableBlob pipes writes into a background multipart upload.
// The object exists only after Close returns nil.
type streamingWritableBlob struct {
	pw   *io.PipeWriter
	done chan error

	closeOnce sync.Once
	closeErr  error
}

func newStreamingWritableBlob(ctx context.Context, uploader *manager.Uploader, bucket, key string, checksum bool) *streamingWritableBlob {
	pr, pw := io.Pipe()

	w := &streamingWritableBlob{
		pw:   pw,
		done: make(chan error, 1),
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   pr,
	}
	if checksum {
		input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
	}

	go func() {
		_, err := uploader.Upload(ctx, input)
		// Unblock a writer stuck on a failed upload.
		_ = pr.CloseWithError(err)
		w.done <- err
	}()

	return w
}

func (w *streamingWritableBlob) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *streamingWritableBlob) Close() error {
	w.closeOnce.Do(func() {
		if err := w.pw.Close(); err != nil {
			w.closeErr = err
			return
		}
		w.closeErr = <-w.done
	})
	return w.closeErr
}

// Abort fails the pipe so the uploader gives up and discards any parts it
// already sent. Nothing is committed.
func (w *streamingWritableBlob) Abort(cause error) error {
	if cause == nil {
		cause = blobstore.ErrAborted
	}
	w.closeOnce.Do(func() {
		_ = w.pw.CloseWithError(cause)
		<-w.done
	})
	return nil
}

// Sync is a no-op: the upload is only committed on Close.
func (w *streamingWritableBlob) Sync() error {
	return nil
}

// putWithChecksum uploads a small blob, optionally with CRC32C integrity validation.
func putWithChecksum(ctx context.Context, client Client, bucket, key string, data []byte, checksum bool) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if checksum {
		input.ChecksumCRC32C = aws.String(hash.CRC32CBase64(data))
	}

	_, err := client.PutObject(ctx, input)
	return err
}
