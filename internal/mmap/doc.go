// Package mmap provides the operating-system memory primitives used by
// contentbridge: anonymous off-heap regions and read-only file mappings.
//
// # Anonymous Regions
//
// Alloc obtains read-write memory directly from the operating system, outside
// the Go garbage collector's control. Free returns it. Both are thin wrappers
// over the platform allocator:
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, munmap(2)
//   - Windows: VirtualAlloc(MEM_RESERVE|MEM_COMMIT), VirtualFree(MEM_RELEASE)
//
// Free must receive exactly the slice returned by Alloc (or an identical
// reconstruction of it). Freeing anything else fails with an error from the
// platform layer; callers treat that as a programmer error.
//
// # File Mappings
//
//	m, err := mmap.Open("content.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // zero-copy
//	m.Advise(mmap.AccessSequential)
//
// # Thread Safety
//
// Alloc and Free may be called concurrently for independent regions. Mapping
// is safe for concurrent reads; Close is idempotent. Callers must ensure no
// goroutine touches Bytes() after Close returns.
package mmap
