// Package checker inspects file contents for trailing whitespace and
// end-of-file newline defects.
//
// Small files are read whole; files larger than the stream threshold are
// scanned line by line and their ending classified from a separate read of
// the final bytes. Both drivers apply the rules in rules.go, so they report
// the same issues for the same text.
package checker

import (
	"bytes"
	"unicode/utf8"

	"github.com/lineguard/lineguard/internal/config"
	"github.com/lineguard/lineguard/internal/files"
	"github.com/lineguard/lineguard/internal/types"
)

// DefaultStreamThreshold is the size above which files are streamed.
const DefaultStreamThreshold int64 = 10 * 1024 * 1024

const errInvalidUTF8 = "stream did not contain valid UTF-8"

// Checker checks files against a fixed set of enabled rules. It holds no
// per-file state and is safe for concurrent use.
type Checker struct {
	fs     files.FileSystem
	checks config.Checks

	// StreamThreshold overrides DefaultStreamThreshold when positive.
	StreamThreshold int64
}

// New returns a Checker for cfg's enabled checks. A nil fsys uses the host
// file system.
func New(cfg config.Config, fsys files.FileSystem) *Checker {
	if fsys == nil {
		fsys = files.OS()
	}
	return &Checker{fs: fsys, checks: cfg.Checks}
}

func (c *Checker) threshold() int64 {
	if c.StreamThreshold > 0 {
		return c.StreamThreshold
	}
	return DefaultStreamThreshold
}

// Check checks one file. Failures to stat or read it are reported in the
// result's Error and never carry issues.
func (c *Checker) Check(path string) types.CheckResult {
	st, err := c.fs.Stat(path)
	if err != nil {
		return failed(path, err.Error())
	}
	if st.Size() > c.threshold() {
		return c.checkStreaming(path)
	}
	return c.checkInMemory(path)
}

// Streaming reports whether a file of the given size would be streamed.
func (c *Checker) Streaming(size int64) bool { return size > c.threshold() }

func failed(path, msg string) types.CheckResult {
	return types.CheckResult{FilePath: path, Issues: []types.Issue{}, Error: msg}
}

func (c *Checker) checkInMemory(path string) types.CheckResult {
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return failed(path, err.Error())
	}
	if !utf8.Valid(data) {
		return failed(path, path+": "+errInvalidUTF8)
	}
	return types.CheckResult{FilePath: path, Issues: c.CheckContent(data)}
}

// CheckContent applies the enabled rules to an in-memory buffer.
func (c *Checker) CheckContent(data []byte) []types.Issue {
	issues := []types.Issue{}
	if c.checks.TrailingSpaces {
		n := 0
		for rest := data; len(rest) > 0; {
			var line []byte
			if i := bytes.IndexByte(rest, '\n'); i >= 0 {
				line, rest = rest[:i], rest[i+1:]
			} else {
				line, rest = rest, nil
			}
			n++
			if TrailingWhitespace(line) {
				issues = append(issues, trailingSpaceIssue(n))
			}
		}
	}
	if c.checks.NewlineEnding {
		if kind := ClassifyEnding(data); kind != "" {
			issues = append(issues, endingIssue(kind))
		}
	}
	return issues
}
