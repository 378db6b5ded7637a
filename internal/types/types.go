package types

// IssueKind identifies the class of whitespace defect an Issue reports.
type IssueKind string

const (
	MissingNewline   IssueKind = "missing_newline"
	MultipleNewlines IssueKind = "multiple_newlines"
	TrailingSpace    IssueKind = "trailing_space"
)

// IsNewlineEnding reports whether the kind is one of the file-level
// end-of-file terminator defects.
func (k IssueKind) IsNewlineEnding() bool {
	return k == MissingNewline || k == MultipleNewlines
}

// Issue describes a single defect. Line is 1-based and only set for
// TrailingSpace issues.
type Issue struct {
	Kind    IssueKind `json:"type"`
	Line    *int      `json:"line"`
	Message string    `json:"message"`
}

// LineNumber returns the issue's line, or 0 when the issue is file-level.
func (i Issue) LineNumber() int {
	if i.Line == nil {
		return 0
	}
	return *i.Line
}

// CheckResult is the outcome of checking one file. Error is non-empty only
// for fatal per-file failures, in which case Issues is empty.
type CheckResult struct {
	FilePath string  `json:"file"`
	Issues   []Issue `json:"issues"`
	Error    string  `json:"error,omitempty"`
}

// HasIssues reports whether the result carries at least one lint issue.
func (r CheckResult) HasIssues() bool { return len(r.Issues) > 0 }

// HasError reports whether the file could not be checked.
func (r CheckResult) HasError() bool { return r.Error != "" }

// GitRangeInfo describes the pinned revision range used to narrow discovery.
type GitRangeInfo struct {
	FromHash     string   `json:"from"`
	ToHash       string   `json:"to"`
	ChangedFiles []string `json:"changed_files"`
}

// ShortHash truncates a commit hash for display.
func ShortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
