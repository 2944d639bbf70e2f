package contentbridge

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordGetContent is called after each content fetch.
	// bytes is the content length (0 on failure).
	RecordGetContent(bytes int, duration time.Duration, err error)

	// RecordWriteContent is called after each content write.
	RecordWriteContent(bytes int, duration time.Duration, err error)

	// RecordRelease is called after each buffer release.
	RecordRelease(bytes int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGetContent(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordWriteContent(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRelease(int)                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GetCount        atomic.Int64
	GetErrors       atomic.Int64
	GetBytes        atomic.Int64
	GetTotalNanos   atomic.Int64
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	WriteBytes      atomic.Int64
	WriteTotalNanos atomic.Int64
	ReleaseCount    atomic.Int64
	ReleaseBytes    atomic.Int64
}

// RecordGetContent implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGetContent(bytes int, duration time.Duration, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetErrors.Add(1)
		return
	}
	b.GetBytes.Add(int64(bytes))
}

// RecordWriteContent implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWriteContent(bytes int, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.WriteBytes.Add(int64(bytes))
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(bytes int) {
	b.ReleaseCount.Add(1)
	b.ReleaseBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GetCount:      b.GetCount.Load(),
		GetErrors:     b.GetErrors.Load(),
		GetBytes:      b.GetBytes.Load(),
		GetAvgNanos:   avg(b.GetTotalNanos.Load(), b.GetCount.Load()),
		WriteCount:    b.WriteCount.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		WriteBytes:    b.WriteBytes.Load(),
		WriteAvgNanos: avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		ReleaseCount:  b.ReleaseCount.Load(),
		ReleaseBytes:  b.ReleaseBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GetCount      int64
	GetErrors     int64
	GetBytes      int64
	GetAvgNanos   int64
	WriteCount    int64
	WriteErrors   int64
	WriteBytes    int64
	WriteAvgNanos int64
	ReleaseCount  int64
	ReleaseBytes  int64
}
