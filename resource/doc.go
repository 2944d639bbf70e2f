// Package resource implements the Controller that governs what content
// transfers may consume.
//
//   - Memory: a byte budget for live native buffers (non-blocking, fail-fast)
//   - Transfers: a cap on concurrent content copies
//   - IO: a token bucket on copy throughput
//
// # Memory Budget
//
// The Controller satisfies nativemem.MemoryAcquirer, so a bridge built with
// it refuses allocations once the budget is spent:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	})
//	bridge := nativemem.New(nativemem.WithMemoryAcquirer(rc))
//
// # Transfers and IO
//
//	if err := rc.AcquireTransfer(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseTransfer()
//
//	r := resource.NewRateLimitedReader(ctx, src, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
