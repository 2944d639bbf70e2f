// Package conv provides safe integer type conversion utilities.
//
// Content sizes arrive as int64 (file stat, object metadata) while native
// buffers are indexed by int. These helpers bounds-check the crossing so a
// 32-bit build reports an error instead of silently truncating.
package conv
