// Package engine runs a lint pass: discovery first, then per-file checks on
// a bounded worker pool. This package is internal; external consumers
// should use the stable facade in pkg/core.
package engine
