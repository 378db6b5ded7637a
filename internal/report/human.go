package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/lineguard/lineguard/internal/types"
)

var (
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	lineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Human prints one block per file with issues followed by a summary.
type Human struct {
	NoColor bool
}

func (h *Human) style(s lipgloss.Style, text string) string {
	if h.NoColor {
		return text
	}
	return s.Render(text)
}

func (h *Human) Report(w io.Writer, results []types.CheckResult) error {
	ew := &errWriter{w: w}
	for _, r := range results {
		if !r.HasIssues() {
			continue
		}
		ew.printf("%s\n", h.style(failStyle, "✗ "+r.FilePath))
		for _, is := range r.Issues {
			if is.Line != nil {
				ew.printf("  - %s %s\n", h.style(lineStyle, fmt.Sprintf("Line %d:", *is.Line)), is.Message)
			} else {
				ew.printf("  - %s\n", is.Message)
			}
		}
		ew.printf("\n")
	}
	s := Summarize(results)
	if s.TotalIssues == 0 {
		ew.printf("%s\n", h.style(passStyle, "✓ All files passed lint checks!"))
	} else {
		ew.printf("%s\n", h.style(failStyle, fmt.Sprintf("✗ Found %d issues in %d files", s.TotalIssues, s.FilesWithIssues)))
	}
	ew.printf("%s\n", h.style(dimStyle, fmt.Sprintf("  Files checked: %d", s.FilesChecked)))
	return ew.err
}

// errWriter keeps the first write error so printing code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
