// Package compress sniffs and decodes compressed content streams.
//
// Supported formats are gzip, zstd and LZ4 frames. Detection looks only at
// the leading magic bytes, so a caller can peek a few bytes of a blob and
// decide whether to route it through a decoder before sizing the native
// buffer that will hold the plain bytes.
package compress
