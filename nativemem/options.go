package nativemem

import "log/slog"

// MemoryAcquirer gates allocations against an external byte budget.
// AcquireMemory must not block; a refusal turns into ErrOutOfMemory.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

type options struct {
	acquirer    MemoryAcquirer
	metrics     MetricsCollector
	logger      *slog.Logger
	debugChecks bool
}

// Option configures a Bridge.
type Option func(*options)

// WithMemoryAcquirer charges every allocation against acquirer.
// Released bytes are handed back when the handle is released.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}

// WithMetricsCollector reports allocations and releases to mc.
// If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithLogger sets the logger used for allocation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDebugChecks tracks live handles, zero-length ones included, so that releasing or viewing a handle
// that is not live panics deterministically. Builds tagged nativememdebug
// enable this for every bridge.
func WithDebugChecks(enabled bool) Option {
	return func(o *options) {
		o.debugChecks = enabled
	}
}
