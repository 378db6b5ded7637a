package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/lineguard/lineguard/internal/types"
)

// Table renders one row per issue (and per unreadable file) followed by a
// summary line.
type Table struct{}

func (Table) Report(w io.Writer, results []types.CheckResult) error {
	s := Summarize(results)
	if s.TotalIssues == 0 && !anyErrors(results) {
		_, err := fmt.Fprintf(w, "No issues found ✅\nFiles checked: %d\n", s.FilesChecked)
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("File", "Line", "Issue")
	for _, r := range results {
		if r.HasError() {
			if err := table.Append([]string{r.FilePath, "-", "error: " + r.Error}); err != nil {
				return err
			}
		}
		for _, is := range r.Issues {
			line := "-"
			if is.Line != nil {
				line = strconv.Itoa(*is.Line)
			}
			if err := table.Append([]string{r.FilePath, line, is.Message}); err != nil {
				return err
			}
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nIssues: %d in %d files (files checked: %d)\n", s.TotalIssues, s.FilesWithIssues, s.FilesChecked)
	return err
}

func anyErrors(results []types.CheckResult) bool {
	for _, r := range results {
		if r.HasError() {
			return true
		}
	}
	return false
}
