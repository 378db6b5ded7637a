package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lineguard/lineguard/internal/fixer"
)

// FixError pairs a file with the reason it could not be fixed.
type FixError struct {
	Path string
	Err  error
}

// FixHeader announces a fix pass over n files.
func FixHeader(w io.Writer, n int, dryRun bool) {
	if dryRun {
		fmt.Fprintf(w, "Checking %d files (dry run)...\n", n)
		return
	}
	fmt.Fprintf(w, "Fixing %d files...\n", n)
}

// FixResults prints each fixed file and a summary to out, and failures to
// errOut. The summary line is omitted when nothing was fixed.
func FixResults(out, errOut io.Writer, results []fixer.Result, failures []FixError, dryRun bool) {
	verb := "Fixed"
	if dryRun {
		verb = "Would fix"
	}
	fixed := 0
	for _, r := range results {
		if r.Fixed {
			fixed++
			fmt.Fprintf(out, "%s: %s\n", verb, r.FilePath)
		}
	}
	for _, f := range failures {
		fmt.Fprintf(errOut, "%s: %v\n", f.Path, f.Err)
	}
	if fixed > 0 {
		fmt.Fprintf(out, "\n%s %d %s\n", verb, fixed, plural(fixed, "file"))
	}
	if n := len(failures); n > 0 {
		fmt.Fprintf(errOut, "\n%d %s occurred\n", n, plural(n, "error"))
	}
}

// FixJSON writes the fix results as a JSON array.
func FixJSON(w io.Writer, results []fixer.Result) error {
	if results == nil {
		results = []fixer.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
