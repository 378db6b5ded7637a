// Package logger provides the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	charm "github.com/charmbracelet/log"
)

var defaultLogger atomic.Value

func init() {
	defaultLogger.Store(New(os.Stderr, charm.WarnLevel))
}

// New creates a logger writing to w at the given level without timestamps.
func New(w io.Writer, level charm.Level) *charm.Logger {
	l := charm.NewWithOptions(w, charm.Options{
		ReportTimestamp: false,
		Prefix:          "lineguard",
	})
	l.SetLevel(level)
	return l
}

// Default returns the global logger.
func Default() *charm.Logger {
	return defaultLogger.Load().(*charm.Logger)
}

// SetDefault replaces the global logger. Nil is ignored.
func SetDefault(l *charm.Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// ParseLevel maps a level name to a charm level. Unknown names fall back to warn.
func ParseLevel(s string) (charm.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return charm.DebugLevel, true
	case "info":
		return charm.InfoLevel, true
	case "warn", "warning", "":
		return charm.WarnLevel, true
	case "error":
		return charm.ErrorLevel, true
	default:
		return charm.WarnLevel, false
	}
}
