package blobstore

import (
	"fmt"
	"os"
)

// Mode is a parsed write mode.
//
// The accepted strings follow the content-provider convention:
//
//	"w"    write, truncating existing content
//	"wt"   write, truncating existing content
//	"wa"   write, appending to existing content
//	"rw"   read-write, overwriting from offset 0 without truncating
//	"rwt"  read-write, truncating existing content
type Mode uint8

const (
	// ModeRead opens for reading.
	ModeRead Mode = 1 << iota
	// ModeWrite opens for writing.
	ModeWrite
	// ModeTruncate discards existing content.
	ModeTruncate
	// ModeAppend positions every write at the end.
	ModeAppend
)

// ParseMode parses a write mode string.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "w", "wt":
		return ModeWrite | ModeTruncate, nil
	case "wa":
		return ModeWrite | ModeAppend, nil
	case "rw":
		return ModeRead | ModeWrite, nil
	case "rwt":
		return ModeRead | ModeWrite | ModeTruncate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
	}
}

// Truncates reports whether existing content is discarded.
func (m Mode) Truncates() bool { return m&ModeTruncate != 0 }

// Appends reports whether writes go to the end of existing content.
func (m Mode) Appends() bool { return m&ModeAppend != 0 }

// Replaces reports whether the write produces a wholly new blob, the only
// kind of write immutable object stores can honour.
func (m Mode) Replaces() bool { return m.Truncates() && !m.Appends() }

// Flags returns the os.OpenFile flags for m. Files are always created.
func (m Mode) Flags() int {
	flag := os.O_CREATE
	if m&ModeRead != 0 {
		flag |= os.O_RDWR
	} else {
		flag |= os.O_WRONLY
	}
	if m.Truncates() {
		flag |= os.O_TRUNC
	}
	if m.Appends() {
		flag |= os.O_APPEND
	}
	return flag
}

func (m Mode) String() string {
	switch m {
	case ModeWrite | ModeTruncate:
		return "wt"
	case ModeWrite | ModeAppend:
		return "wa"
	case ModeRead | ModeWrite:
		return "rw"
	case ModeRead | ModeWrite | ModeTruncate:
		return "rwt"
	default:
		return fmt.Sprintf("Mode(%#x)", uint8(m))
	}
}
