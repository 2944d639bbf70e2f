package s3

// Option configures a Store.
type Option func(*options)

type options struct {
	bucket            string
	prefix            string
	region            string
	partSize          int64
	concurrency       int
	checksum          bool
	leavePartsOnError bool
}

func defaultOptions() options {
	return options{
		partSize:    8 * 1024 * 1024, // above the SDK's 5MB minimum for better throughput
		concurrency: 5,
		checksum:    true,
	}
}

// WithBucket pins the store to one bucket. Without it, the first path
// segment of every name is the bucket ("bucket/key").
func WithBucket(bucket string) Option {
	return func(o *options) {
		o.bucket = bucket
	}
}

// WithPrefix prepends prefix to every key (e.g. "tenant-a/").
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithRegion overrides the region resolved by the default AWS config chain.
// Only used by New.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithPartSize sets the part size for multipart downloads and uploads.
func WithPartSize(size int64) Option {
	return func(o *options) {
		if size > 0 {
			o.partSize = size
		}
	}
}

// WithConcurrency sets how many parts are transferred in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithChecksum toggles CRC32C integrity validation on uploads. Default: on.
func WithChecksum(enabled bool) Option {
	return func(o *options) {
		o.checksum = enabled
	}
}

// WithLeavePartsOnError keeps uploaded parts when a multipart upload fails
// instead of aborting it.
func WithLeavePartsOnError(leave bool) Option {
	return func(o *options) {
		o.leavePartsOnError = leave
	}
}
