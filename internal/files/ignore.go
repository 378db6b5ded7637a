package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// CacheFileName is the result cache written at the project root when the
// project is not a git checkout.
const CacheFileName = ".lineguardcache.json"

// AppendIgnore ensures pattern is listed in .gitignore at repoRoot. The file
// is created when missing and a separating newline is added when the last
// line is unterminated. Calling it twice is a no-op.
func AppendIgnore(repoRoot, pattern string) error {
	p := filepath.Join(repoRoot, ".gitignore")
	var existing []byte
	if b, err := os.ReadFile(p); err == nil {
		existing = b
		sc := bufio.NewScanner(strings.NewReader(string(b)))
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) == pattern {
				return nil
			}
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	line := pattern + "\n"
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		line = "\n" + line
	}
	_, err = f.WriteString(line)
	return err
}

// DefaultGeneratedIgnores returns patterns for generated files that are
// rarely worth linting for whitespace.
func DefaultGeneratedIgnores() []string {
	return []string{
		"*.pb.go",
		"*.min.js",
		"*.min.css",
		"*.lock",
	}
}
