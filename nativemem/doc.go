// Package nativemem hands out byte regions that live outside the Go heap and
// exposes them as zero-copy []byte views.
//
// # Lifecycle
//
// Every allocation follows the same linear sequence:
//
//	h, err := nativemem.Allocate(n) // ownership moves to the caller
//	if err != nil {
//	    // errors.Is(err, nativemem.ErrOutOfMemory)
//	}
//	buf := nativemem.View(h, n) // aliases the native bytes, no copy
//	copy(buf, payload)
//	// ... hand buf to its consumer ...
//	nativemem.Release(h) // exactly once, after every view is done
//
// The garbage collector never scans, moves or frees these regions. A Handle is
// an opaque value: callers cannot fabricate one, and it carries the size of
// its region so Release needs no bookkeeping inside the bridge.
//
// # Errors and Contract Violations
//
// Allocate reports exhaustion with ErrOutOfMemory. That is the only
// recoverable error. Everything else (zero handles, negative sizes, views
// larger than the allocation, double release) is a programmer error and
// panics with a *ContractViolation, which matches ErrContractViolation under
// errors.Is.
//
// # Debug Checks
//
// Building with the nativememdebug tag (or passing WithDebugChecks(true) to
// New) keeps a set of live regions, so use-after-release and double release
// are caught even when the platform allocator would not notice. Zero-length
// handles own no region; each one gets its own id in the set instead.
//
// # Concurrency
//
// Allocate, View and Release may be called from any goroutine for independent
// handles. Operations on the same handle must be serialised by the caller, and
// Release must happen after every view of that handle is finished with.
//
// # Non-goals
//
// No garbage collection, reference counting or pooling. There is no way to
// ask how large a handle's region is beyond Handle.Size, and no way to list
// outstanding allocations.
package nativemem
