//go:build nativememdebug

package nativemem

const debugBuild = true
