package s3

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/contentbridge/blobstore"
)

// ErrInvalidName is returned when a name does not resolve to a bucket and key.
var ErrInvalidName = errors.New("s3: name must be bucket/key")

// Client is the subset of the S3 API the store uses. *s3.Client satisfies it.
type Client interface {
	manager.UploadAPIClient
	manager.DownloadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Store implements blobstore.Store, blobstore.Writer and blobstore.Putter for S3.
type Store struct {
	client Client
	opts   options
}

// New creates a Store from the default AWS config chain
// (environment, shared config, IMDS).
func New(ctx context.Context, optFns ...Option) (*Store, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	return NewStore(s3.NewFromConfig(cfg), optFns...), nil
}

// NewStore creates a Store on an existing client.
func NewStore(client Client, optFns ...Option) *Store {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, opts: opts}
}

// locate splits name into bucket and key.
func (s *Store) locate(name string) (bucket, key string, err error) {
	name = strings.TrimPrefix(name, "/")
	bucket = s.opts.bucket
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
	if s.opts.prefix != "" {
		name = path.Join(s.opts.prefix, name)
	}
	return bucket, name, nil
}

// Open opens an object for reading.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	bucket, key, err := s.locate(name)
	if err != nil {
		return nil, err
	}

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("s3://%s/%s: %w", bucket, key, blobstore.ErrNotFound)
		}
		return nil, err
	}

	return &blob{
		client: s.client,
		bucket: bucket,
		key:    key,
		etag:   aws.ToString(head.ETag),
		info: blobstore.Info{
			Name:        path.Base(key),
			Size:        aws.ToInt64(head.ContentLength),
			ContentType: aws.ToString(head.ContentType),
			ModTime:     aws.ToTime(head.LastModified),
		},
		partSize:    s.opts.partSize,
		concurrency: s.opts.concurrency,
	}, nil
}

// Create starts a streaming upload. Objects are immutable, so only modes
// that replace the whole object are accepted.
func (s *Store) Create(ctx context.Context, name string, mode blobstore.Mode) (blobstore.WritableBlob, error) {
	if !mode.Replaces() {
		return nil, fmt.Errorf("%w: %s on s3", blobstore.ErrUnsupportedMode, mode)
	}

	bucket, key, err := s.locate(name)
	if err != nil {
		return nil, err
	}

	return newStreamingWritableBlob(ctx, s.newUploader(), bucket, key, s.opts.checksum), nil
}

// Put uploads data in a single request with a CRC32C checksum.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	bucket, key, err := s.locate(name)
	if err != nil {
		return err
	}
	return putWithChecksum(ctx, s.client, bucket, key, data, s.opts.checksum)
}

func (s *Store) newUploader() *manager.Uploader {
	return manager.NewUploader(s.client, func(u *manager.Uploader) {
		u.PartSize = s.opts.partSize
		u.Concurrency = s.opts.concurrency
		u.LeavePartsOnError = s.opts.leavePartsOnError
	})
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}

var (
	_ blobstore.Store  = (*Store)(nil)
	_ blobstore.Writer = (*Store)(nil)
	_ blobstore.Putter = (*Store)(nil)
)
