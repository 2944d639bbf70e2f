package mmap

// Alloc maps size bytes of anonymous read-write memory outside the Go heap.
// The returned slice has len == cap == size. Contents are whatever the
// platform hands out; no zeroing is promised to callers.
func Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return osMapAnon(size)
}

// Free returns a region obtained from Alloc to the operating system.
// data must span the whole region.
func Free(data []byte) error {
	if len(data) == 0 || len(data) != cap(data) {
		return ErrInvalidSize
	}
	return osFreeAnon(data)
}
