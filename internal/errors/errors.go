// Package errors holds the sentinel errors shared across lineguard and the
// exit-code plumbing used by the CLI. Callers usually import it as errUtils.
package errors

import "github.com/cockroachdb/errors"

var (
	ErrNotARepository        = errors.New("not a git repository")
	ErrUnresolvableReference = errors.New("invalid git reference")
	ErrStdinRead             = errors.New("failed to read file list from stdin")
	ErrConfigNotFound        = errors.New("configuration file not found")
	ErrConfigParse           = errors.New("failed to parse configuration file")
	ErrIssuesFound           = errors.New("lint issues found")
	ErrFixFailed             = errors.New("one or more files could not be fixed")
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitIssues     = 1
	ExitUsage      = 2
	ExitDiscovery  = 3
	ExitConfigLoad = 4
)
