// Package fixer rewrites files to remove the defects the checker reports.
//
// Trailing spaces and tabs are stripped from every line (a CRLF terminator
// is kept). A bad file ending is repaired by trimming all trailing
// whitespace and appending exactly one '\n'. Replacements are atomic: the
// new content is written to a pending file and renamed over the original.
package fixer

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"

	"github.com/lineguard/lineguard/internal/checker"
	"github.com/lineguard/lineguard/internal/config"
	"github.com/lineguard/lineguard/internal/types"
)

// Result describes what Fix did, or would do in dry-run mode.
type Result struct {
	FilePath    string        `json:"file"`
	Fixed       bool          `json:"fixed"`
	IssuesFixed []types.Issue `json:"issues_fixed"`
}

// Fixer applies fixes for the enabled checks.
type Fixer struct {
	checks config.Checks
	dryRun bool

	// StreamThreshold overrides checker.DefaultStreamThreshold when positive.
	StreamThreshold int64
}

// New returns a Fixer. In dry-run mode nothing is written.
func New(cfg config.Config, dryRun bool) *Fixer {
	return &Fixer{checks: cfg.Checks, dryRun: dryRun}
}

type plan struct {
	trailing bool
	ending   bool

	// settle repairs an ending defect that only appears once trailing
	// whitespace is gone, as when "  \n" lines collapse to "\n\n".
	settle bool
}

func (f *Fixer) plan(issues []types.Issue) plan {
	var p plan
	for _, is := range issues {
		switch {
		case is.Kind == types.TrailingSpace && f.checks.TrailingSpaces:
			p.trailing = true
		case is.Kind.IsNewlineEnding() && f.checks.NewlineEnding:
			p.ending = true
		}
	}
	p.settle = p.trailing && !p.ending && f.checks.NewlineEnding
	return p
}

// apply runs the plan over an in-memory copy of a file.
func (p plan) apply(data []byte) []byte {
	out := Apply(data, p.trailing, p.ending)
	if p.settle && checker.ClassifyEnding(out) != "" {
		out = Apply(out, false, true)
	}
	return out
}

func (p plan) fixable(is types.Issue) bool {
	if is.Kind == types.TrailingSpace {
		return p.trailing
	}
	return p.ending
}

// Fix repairs path for the given issues. Issues whose check is disabled
// are left alone.
func (f *Fixer) Fix(path string, issues []types.Issue) (Result, error) {
	res := Result{FilePath: path, IssuesFixed: []types.Issue{}}
	p := f.plan(issues)
	if !p.trailing && !p.ending {
		return res, nil
	}
	st, err := os.Stat(path)
	if err != nil {
		return res, errors.Wrapf(err, "fix %s", path)
	}
	threshold := f.StreamThreshold
	if threshold <= 0 {
		threshold = checker.DefaultStreamThreshold
	}
	if st.Size() > threshold {
		res.Fixed, err = f.fixStreaming(path, p)
	} else {
		res.Fixed, err = f.fixInMemory(path, st.Mode().Perm(), p)
	}
	if err != nil {
		return Result{FilePath: path, IssuesFixed: []types.Issue{}}, errors.Wrapf(err, "fix %s", path)
	}
	if res.Fixed {
		for _, is := range issues {
			if p.fixable(is) {
				res.IssuesFixed = append(res.IssuesFixed, is)
			}
		}
	}
	return res, nil
}

func (f *Fixer) fixInMemory(path string, perm os.FileMode, p plan) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	out := p.apply(data)
	if bytes.Equal(out, data) {
		return false, nil
	}
	if f.dryRun {
		return true, nil
	}
	return true, renameio.WriteFile(path, out, perm, renameio.WithExistingPermissions())
}

// Apply returns data with the selected fixes applied.
func Apply(data []byte, trailing, ending bool) []byte {
	out := data
	if trailing {
		out = make([]byte, 0, len(data))
		for rest := data; len(rest) > 0; {
			var line []byte
			if i := bytes.IndexByte(rest, '\n'); i >= 0 {
				line, rest = rest[:i+1], rest[i+1:]
			} else {
				line, rest = rest, nil
			}
			out = append(out, trimLine(line)...)
		}
	}
	if ending {
		out = append(bytes.TrimRight(out, eofSpace), '\n')
	}
	return out
}

const eofSpace = " \t\r\n\v\f"

// trimLine strips spaces and tabs before the line's terminator, keeping
// "\n" or "\r\n" intact.
func trimLine(line []byte) []byte {
	body, term := splitTerminator(line)
	trimmed := bytes.TrimRight(body, " \t")
	if len(trimmed) == len(body) {
		return line
	}
	out := make([]byte, 0, len(trimmed)+len(term))
	out = append(out, trimmed...)
	return append(out, term...)
}

func splitTerminator(line []byte) (body, term []byte) {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		if n > 1 && line[n-2] == '\r' {
			return line[:n-2], line[n-2:]
		}
		return line[:n-1], line[n-1:]
	}
	return line, nil
}
