package integration_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contentbridge"
	s3store "github.com/hupe1980/contentbridge/blobstore/s3"
	"github.com/hupe1980/contentbridge/resource"
	"github.com/hupe1980/contentbridge/testutil"
)

// bucketClient is an in-memory S3 that understands single and multipart
// uploads and ranged GETs.
type bucketClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads map[string]map[int32][]byte
	puts    int
	parts   int
	aborted int
}

func newBucketClient() *bucketClient {
	return &bucketClient{
		objects: make(map[string][]byte),
		uploads: make(map[string]map[int32][]byte),
	}
}

func objectKey(bucket, key *string) string {
	return aws.ToString(bucket) + "/" + aws.ToString(key)
}

func (c *bucketClient) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.objects[objectKey(in.Bucket, in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (c *bucketClient) CreateMultipartUpload(_ context.Context, in *s3.CreateMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := fmt.Sprintf("upload-%d", len(c.uploads)+1)
	c.uploads[id] = make(map[int32][]byte)
	return &s3.CreateMultipartUploadOutput{Bucket: in.Bucket, Key: in.Key, UploadId: aws.String(id)}, nil
}

func (c *bucketClient) UploadPart(_ context.Context, in *s3.UploadPartInput, _ ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts++
	c.uploads[aws.ToString(in.UploadId)][aws.ToInt32(in.PartNumber)] = data
	return &s3.UploadPartOutput{ETag: aws.String(fmt.Sprintf("etag-%d", aws.ToInt32(in.PartNumber)))}, nil
}

func (c *bucketClient) CompleteMultipartUpload(_ context.Context, in *s3.CompleteMultipartUploadInput, _ ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parts := c.uploads[aws.ToString(in.UploadId)]
	numbers := make([]int32, 0, len(parts))
	for n := range parts {
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)

	var obj bytes.Buffer
	for _, n := range numbers {
		obj.Write(parts[n])
	}
	c.objects[objectKey(in.Bucket, in.Key)] = obj.Bytes()
	delete(c.uploads, aws.ToString(in.UploadId))
	return &s3.CompleteMultipartUploadOutput{}, nil
}

func (c *bucketClient) AbortMultipartUpload(_ context.Context, in *s3.AbortMultipartUploadInput, _ ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aborted++
	delete(c.uploads, aws.ToString(in.UploadId))
	return &s3.AbortMultipartUploadOutput{}, nil
}

func (c *bucketClient) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.objects[objectKey(in.Bucket, in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (c *bucketClient) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.objects[objectKey(in.Bucket, in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}

	size := int64(len(data))
	start, end := int64(0), size-1
	if in.Range != nil {
		if _, err := fmt.Sscanf(*in.Range, "bytes=%d-%d", &start, &end); err != nil {
			return nil, err
		}
		end = min(end, size-1)
	}
	part := data[start : end+1]
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(part)),
		ContentLength: aws.Int64(int64(len(part))),
		ContentRange:  aws.String(fmt.Sprintf("bytes %d-%d/%d", start, end, size)),
	}, nil
}

func (c *bucketClient) object(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.objects[key]
	return data, ok
}

func TestE2E_S3StreamingWrite(t *testing.T) {
	ctx := t.Context()
	rng := testutil.NewRNG(99)

	client := newBucketClient()
	store := s3store.NewStore(client, s3store.WithBucket("media"), s3store.WithPartSize(5<<20))

	r, err := contentbridge.New(
		contentbridge.WithStore("s3", store),
		contentbridge.WithPutThreshold(1<<20),
		contentbridge.WithChunkSize(256<<10),
	)
	require.NoError(t, err)
	defer r.Close()

	small := rng.Payload(64 << 10)
	require.NoError(t, r.WriteContent(ctx, "s3://thumbs/small.bin", "w", small))

	large := rng.Payload(11<<20 + 3)
	require.NoError(t, r.WriteContent(ctx, "s3://videos/large.bin", "wt", large))

	client.mu.Lock()
	puts, parts := client.puts, client.parts
	client.mu.Unlock()
	assert.Equal(t, 1, puts, "only the small write goes through Put")
	assert.Equal(t, 3, parts, "the large write is a three-part upload")

	got, ok := client.object("media/videos/large.bin")
	require.True(t, ok)
	assert.Equal(t, large, got)

	c, err := r.GetContent(ctx, "s3://videos/large.bin")
	require.NoError(t, err)
	defer c.Release()
	assert.Equal(t, large, c.Bytes())
}

func TestE2E_S3StreamingWriteAborts(t *testing.T) {
	client := newBucketClient()
	store := s3store.NewStore(client, s3store.WithBucket("media"), s3store.WithPartSize(5<<20))

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 6 << 20})
	r, err := contentbridge.New(
		contentbridge.WithStore("s3", store),
		contentbridge.WithResourceController(rc),
		contentbridge.WithPutThreshold(0),
		contentbridge.WithChunkSize(1<<20),
	)
	require.NoError(t, err)
	defer r.Close()

	// The first part fills within the burst; the deadline hits before the
	// second is complete.
	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()
	err = r.WriteContent(ctx, "s3://videos/cut.bin", "w", testutil.NewRNG(1).Payload(12<<20))
	require.Error(t, err)

	_, ok := client.object("media/videos/cut.bin")
	assert.False(t, ok, "an aborted upload must not produce an object")
}
