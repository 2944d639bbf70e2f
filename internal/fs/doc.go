// Package fs provides filesystem abstractions for testability and fault injection.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test utility that injects open, write, sync and close errors
//
// Production code should use fs.Default (which is [LocalFS]). Tests inject a
// [FaultyFS] into the local content store to simulate failing writes:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("report.pdf", fs.Fault{FailAfterBytes: 1024})
//
// Filesystem calls take no context.Context; local syscalls cannot be
// interrupted midway. Slow remote stores live behind blobstore, which does.
package fs
