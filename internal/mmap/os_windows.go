//go:build windows

package mmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return nil, nil, err
	}
	// The view keeps its own reference to the mapping object.
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		return nil, nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size) //nolint:govet // mapped view, not Go memory

	return data, func([]byte) error {
		return windows.UnmapViewOfFile(addr)
	}, nil
}

// osMapAnon uses VirtualAlloc with MEM_RESERVE|MEM_COMMIT. Pages are backed
// on first touch, which matches anonymous mmap on Unix.
func osMapAnon(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil //nolint:govet // VirtualAlloc region
}

// osFreeAnon releases the whole reservation. VirtualFree fails for addresses
// that are not the base of a live reservation.
func osFreeAnon(data []byte) error {
	return windows.VirtualFree(uintptr(unsafe.Pointer(unsafe.SliceData(data))), 0, windows.MEM_RELEASE)
}

func osAdvise([]byte, AccessPattern) error {
	// No madvise equivalent worth wiring; the page cache copes with sequential reads.
	return nil
}
