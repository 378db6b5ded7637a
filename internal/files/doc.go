// Package files provides the file-system capability used by discovery and
// the content checker.
//
// Callers depend on the FileSystem interface rather than the os package so
// that tests can substitute the in-memory implementation returned by
// NewMemory. The OS implementation follows symlinks on Stat and expands
// glob patterns with doublestar.
package files
