// Package cache provides an in-memory LRU used to memoize content metadata
// lookups (display names, MIME types) between repeated resolutions of the
// same URI.
package cache
