// Package hash provides the CRC32-Castagnoli checksums attached to content
// written to object stores.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32CBase64(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := hash.EncodeCRC32C(h.Sum32())
package hash
