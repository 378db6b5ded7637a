// Package report renders check results in the supported output formats.
package report

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lineguard/lineguard/internal/git"
	"github.com/lineguard/lineguard/internal/types"
)

// Format names an output format.
type Format string

const (
	FormatHuman  Format = "human"
	FormatJSON   Format = "json"
	FormatGitHub Format = "github"
	FormatSARIF  Format = "sarif"
	FormatTable  Format = "table"
)

// Formats lists every accepted format, in help order.
var Formats = []Format{FormatHuman, FormatJSON, FormatGitHub, FormatSARIF, FormatTable}

// Reporter writes a full set of results to w.
type Reporter interface {
	Report(w io.Writer, results []types.CheckResult) error
}

// Options tune the reporters. Zero values give plain output.
type Options struct {
	// NoColor disables lipgloss styling in the human reporter.
	NoColor bool
	// Highlight enables chroma highlighting of JSON output.
	Highlight bool
	// Version is embedded as the SARIF driver version.
	Version string
	// Provenance, when set, is attached to SARIF runs.
	Provenance *git.Metadata
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Newf("unknown format %q (want one of %s)", s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// New returns the reporter for f.
func New(f Format, opts Options) (Reporter, error) {
	switch f {
	case FormatHuman, "":
		return &Human{NoColor: opts.NoColor}, nil
	case FormatJSON:
		return &JSON{Highlight: opts.Highlight}, nil
	case FormatGitHub:
		return GitHub{}, nil
	case FormatSARIF:
		return &SARIF{Version: opts.Version, Provenance: opts.Provenance}, nil
	case FormatTable:
		return Table{}, nil
	}
	return nil, errors.Newf("unknown format %q", f)
}

// Summary aggregates counts over a result set.
type Summary struct {
	FilesChecked    int `json:"files_checked"`
	FilesWithIssues int `json:"files_with_issues"`
	TotalIssues     int `json:"total_issues"`
}

// Summarize counts results. Files that failed to be checked count as
// checked but never as having issues.
func Summarize(results []types.CheckResult) Summary {
	s := Summary{FilesChecked: len(results)}
	for _, r := range results {
		if r.HasIssues() {
			s.FilesWithIssues++
			s.TotalIssues += len(r.Issues)
		}
	}
	return s
}
