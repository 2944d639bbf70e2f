package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format identifies a compression container.
type Format uint8

const (
	// None means the content is stored as-is.
	None Format = iota
	// Gzip is RFC 1952.
	Gzip
	// Zstd is a Zstandard frame.
	Zstd
	// LZ4 is an LZ4 frame (not a raw block).
	LZ4
)

// ErrUnknownFormat is returned for a Format value outside the known set.
var ErrUnknownFormat = errors.New("compress: unknown format")

// MagicLen is the number of leading bytes Detect needs.
const MagicLen = 4

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

func (f Format) String() string {
	switch f {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Detect reports the format whose magic number prefixes p.
func Detect(p []byte) Format {
	switch {
	case bytes.HasPrefix(p, zstdMagic):
		return Zstd
	case bytes.HasPrefix(p, lz4Magic):
		return LZ4
	case bytes.HasPrefix(p, gzipMagic):
		return Gzip
	default:
		return None
	}
}

var (
	zstdDecoderPool sync.Pool
	lz4ReaderPool   sync.Pool
)

func getZstdDecoder(r io.Reader) (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		dec := v.(*zstd.Decoder)
		if err := dec.Reset(r); err != nil {
			return nil, err
		}
		return dec, nil
	}
	return zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
}

func getLZ4Reader(r io.Reader) *lz4.Reader {
	if v := lz4ReaderPool.Get(); v != nil {
		zr := v.(*lz4.Reader)
		zr.Reset(r)
		return zr
	}
	return lz4.NewReader(r)
}

// NewReader returns a decoder for format reading from r.
// Close returns pooled decoder state; it does not close r.
func NewReader(format Format, r io.Reader) (io.ReadCloser, error) {
	switch format {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		dec, err := getZstdDecoder(r)
		if err != nil {
			return nil, err
		}
		return &zstdReadCloser{dec: dec}, nil
	case LZ4:
		return &lz4ReadCloser{zr: getLZ4Reader(r)}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, uint8(format))
	}
}

type zstdReadCloser struct {
	dec *zstd.Decoder
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	if z.dec == nil {
		return 0, io.ErrClosedPipe
	}
	return z.dec.Read(p)
}

func (z *zstdReadCloser) Close() error {
	if z.dec == nil {
		return nil
	}
	// Drop the reference to the source before pooling.
	_ = z.dec.Reset(nil)
	zstdDecoderPool.Put(z.dec)
	z.dec = nil
	return nil
}

type lz4ReadCloser struct {
	zr *lz4.Reader
}

func (l *lz4ReadCloser) Read(p []byte) (int, error) {
	if l.zr == nil {
		return 0, io.ErrClosedPipe
	}
	return l.zr.Read(p)
}

func (l *lz4ReadCloser) Close() error {
	if l.zr == nil {
		return nil
	}
	l.zr.Reset(nil)
	lz4ReaderPool.Put(l.zr)
	l.zr = nil
	return nil
}

// NewWriter returns an encoder for format writing to w. The caller must
// Close it to flush the frame trailer.
func NewWriter(format Format, w io.Writer) (io.WriteCloser, error) {
	switch format {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, uint8(format))
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
