package report

import (
	"io"

	"github.com/lineguard/lineguard/internal/types"
)

// GitHub emits GitHub Actions workflow commands, one per issue. A file that
// could not be checked is reported before its issues.
type GitHub struct{}

func (GitHub) Report(w io.Writer, results []types.CheckResult) error {
	ew := &errWriter{w: w}
	for _, r := range results {
		if r.HasError() {
			ew.printf("::error file=%s::%s\n", r.FilePath, r.Error)
		}
		for _, is := range r.Issues {
			if is.Line != nil {
				ew.printf("::error file=%s,line=%d::%s\n", r.FilePath, *is.Line, is.Message)
			} else {
				ew.printf("::error file=%s::%s\n", r.FilePath, is.Message)
			}
		}
	}
	return ew.err
}
