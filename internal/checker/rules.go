package checker

import "github.com/lineguard/lineguard/internal/types"

// Issue messages.
const (
	MsgTrailingSpace    = "Trailing spaces found"
	MsgMissingNewline   = "Missing newline at end of file"
	MsgMultipleNewlines = "Multiple newlines at end of file"
)

// TailSize is how many trailing bytes ClassifyEnding needs to see.
const TailSize = 4

// TrailingWhitespace reports whether a logical line ends in a space or tab.
// line excludes its '\n'; a single '\r' before it belongs to the CRLF
// terminator and is ignored. A zero-length line never matches.
func TrailingWhitespace(line []byte) bool {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	if len(line) == 0 {
		return false
	}
	c := line[len(line)-1]
	return c == ' ' || c == '\t'
}

// ClassifyEnding inspects the final bytes of a file (at least TailSize, or
// the whole content) and returns MissingNewline, MultipleNewlines or "" when
// the ending is fine. Empty content is always fine.
func ClassifyEnding(tail []byte) types.IssueKind {
	if len(tail) == 0 {
		return ""
	}
	if tail[len(tail)-1] != '\n' {
		return types.MissingNewline
	}
	rest := tail[:len(tail)-1]
	if n := len(rest); n > 0 && rest[n-1] == '\r' {
		rest = rest[:n-1]
	}
	if n := len(rest); n > 0 && rest[n-1] == '\n' {
		return types.MultipleNewlines
	}
	return ""
}

func trailingSpaceIssue(line int) types.Issue {
	return types.Issue{Kind: types.TrailingSpace, Line: &line, Message: MsgTrailingSpace}
}

func endingIssue(kind types.IssueKind) types.Issue {
	msg := MsgMissingNewline
	if kind == types.MultipleNewlines {
		msg = MsgMultipleNewlines
	}
	return types.Issue{Kind: kind, Message: msg}
}
