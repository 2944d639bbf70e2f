// Package testutil provides testing utilities for contentbridge.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic payload generation and store wrappers that
// simulate remote latency.
//
// # Random Payloads
//
//	rng := testutil.NewRNG(seed)
//	blob := rng.Payload(1 << 20)     // incompressible bytes
//	logs := rng.TextPayload(1 << 20) // compressible, line oriented
//
// # Simulated Latency
//
//	slow := testutil.NewLatencyStore(blobstore.NewMemoryStore(), 20*time.Millisecond)
package testutil
