package nativemem

import "sync/atomic"

// MetricsCollector observes bridge activity.
// Implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordAllocate is called after every Allocate. err is nil on success.
	RecordAllocate(size int, err error)
	// RecordRelease is called after every successful Release.
	RecordRelease(size int)
}

// NoopMetricsCollector discards all observations.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAllocate(int, error) {}
func (NoopMetricsCollector) RecordRelease(int)         {}

// BasicMetricsCollector keeps in-memory counters.
type BasicMetricsCollector struct {
	AllocateCount  atomic.Int64
	AllocateErrors atomic.Int64
	ReleaseCount   atomic.Int64
	BytesAllocated atomic.Int64
	BytesReleased  atomic.Int64
}

// RecordAllocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocate(size int, err error) {
	if err != nil {
		b.AllocateErrors.Add(1)
		return
	}
	b.AllocateCount.Add(1)
	b.BytesAllocated.Add(int64(size))
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(size int) {
	b.ReleaseCount.Add(1)
	b.BytesReleased.Add(int64(size))
}

// GetStats returns a snapshot of the counters.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	allocated := b.BytesAllocated.Load()
	released := b.BytesReleased.Load()
	return BasicMetricsStats{
		AllocateCount:  b.AllocateCount.Load(),
		AllocateErrors: b.AllocateErrors.Load(),
		ReleaseCount:   b.ReleaseCount.Load(),
		BytesAllocated: allocated,
		BytesReleased:  released,
		LiveBytes:      allocated - released,
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocateCount  int64
	AllocateErrors int64
	ReleaseCount   int64
	BytesAllocated int64
	BytesReleased  int64
	LiveBytes      int64
}
