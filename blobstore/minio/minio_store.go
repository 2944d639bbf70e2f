package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/hupe1980/contentbridge/blobstore"
	"github.com/minio/minio-go/v7"
)

// ErrInvalidName is returned when a name does not resolve to a bucket and key.
var ErrInvalidName = errors.New("minio: name must be bucket/key")

// Option configures a Store.
type Option func(*Store)

// WithBucket pins the store to one bucket. Without it, the first path
// segment of every name is the bucket.
func WithBucket(bucket string) Option {
	return func(s *Store) {
		s.bucket = bucket
	}
}

// WithPrefix prepends prefix to every key.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// Store implements the blobstore interfaces for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a new MinIO blob store.
func NewStore(client *minio.Client, opts ...Option) *Store {
	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New creates the MinIO client and the store in one step.
func New(endpoint string, clientOpts *minio.Options, opts ...Option) (*Store, error) {
	client, err := minio.New(endpoint, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("minio: new client: %w", err)
	}
	return NewStore(client, opts...), nil
}

func (s *Store) locate(name string) (bucket, key string, err error) {
	name = strings.TrimPrefix(name, "/")
	bucket = s.bucket
	if bucket == "" {
		var ok bool
		bucket, name, ok = strings.Cut(name, "/")
		if !ok || bucket == "" {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: empty key", ErrInvalidName)
	}
	if s.prefix != "" {
		name = path.Join(s.prefix, name)
	}
	return bucket, name, nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound" || code == "NoSuchBucket"
}

// Open opens an existing object for reading.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	bucket, key, err := s.locate(name)
	if err != nil {
		return nil, err
	}

	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("minio://%s/%s: %w", bucket, key, blobstore.ErrNotFound)
		}
		return nil, err
	}

	return &minioBlob{
		client: s.client,
		bucket: bucket,
		key:    key,
		etag:   info.ETag,
		info: blobstore.Info{
			Name:        path.Base(key),
			Size:        info.Size,
			ContentType: info.ContentType,
			ModTime:     info.LastModified,
		},
	}, nil
}

// Put writes a blob atomically.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	bucket, key, err := s.locate(name)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Create starts a streaming upload. Only modes that replace the whole
// object are supported.
func (s *Store) Create(ctx context.Context, name string, mode blobstore.Mode) (blobstore.WritableBlob, error) {
	if !mode.Replaces() {
		return nil, fmt.Errorf("%w: %s on minio", blobstore.ErrUnsupportedMode, mode)
	}

	bucket, key, err := s.locate(name)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	blob := &minioWritableBlob{
		pw:   pw,
		done: make(chan error, 1),
	}

	go func() {
		_, err := s.client.PutObject(ctx, bucket, key, pr, -1, minio.PutObjectOptions{})
		_ = pr.CloseWithError(err)
		blob.done <- err
	}()

	return blob, nil
}

// minioBlob implements blobstore.Blob and blobstore.Downloader for MinIO.
type minioBlob struct {
	client *minio.Client
	bucket string
	key    string
	etag   string
	info   blobstore.Info
}

func (b *minioBlob) Size() int64 {
	return b.info.Size
}

func (b *minioBlob) Info() blobstore.Info {
	return b.info
}

func (b *minioBlob) getOptions() minio.GetObjectOptions {
	opts := minio.GetObjectOptions{}
	if b.etag != "" {
		_ = opts.SetMatchETag(b.etag)
	}
	return opts
}

func (b *minioBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off >= b.info.Size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	end := min(off+int64(len(p))-1, b.info.Size-1)

	opts := b.getOptions()
	if err := opts.SetRange(off, end); err != nil {
		return 0, err
	}

	obj, err := b.client.GetObject(ctx, b.bucket, b.key, opts)
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	want := int(end - off + 1)
	n, err := io.ReadFull(obj, p[:want])
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

// DownloadTo streams the whole object into w from offset 0.
func (b *minioBlob) DownloadTo(ctx context.Context, w io.WriterAt) (int64, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.key, b.getOptions())
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	return io.Copy(io.NewOffsetWriter(w, 0), obj)
}

func (b *minioBlob) Close() error {
	return nil
}

// minioWritableBlob implements blobstore.WritableBlob for MinIO.
type minioWritableBlob struct {
	pw   *io.PipeWriter
	done chan error

	closeOnce sync.Once
	closeErr  error
}

func (b *minioWritableBlob) Write(p []byte) (int, error) {
	return b.pw.Write(p)
}

func (b *minioWritableBlob) Close() error {
	b.closeOnce.Do(func() {
		if err := b.pw.Close(); err != nil {
			b.closeErr = err
			return
		}
		b.closeErr = <-b.done
	})
	return b.closeErr
}

func (b *minioWritableBlob) Abort(cause error) error {
	if cause == nil {
		cause = blobstore.ErrAborted
	}
	b.closeOnce.Do(func() {
		_ = b.pw.CloseWithError(cause)
		<-b.done
	})
	return nil
}

func (b *minioWritableBlob) Sync() error {
	return nil // Streaming upload, no sync needed
}

var (
	_ blobstore.Store      = (*Store)(nil)
	_ blobstore.Writer     = (*Store)(nil)
	_ blobstore.Putter     = (*Store)(nil)
	_ blobstore.Downloader = (*minioBlob)(nil)
)
