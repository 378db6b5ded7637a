package checker

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/lineguard/lineguard/internal/types"
)

const maxLineSize = 64 * 1024 * 1024

// scanRawLines splits on '\n' like bufio.ScanLines but keeps a trailing
// '\r' so TrailingWhitespace sees the same bytes in both drivers.
func scanRawLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// checkStreaming scans line by line. A read error or an invalid UTF-8 line
// ends the scan quietly and keeps the issues found so far. The ending is
// classified from a second read of the last TailSize bytes; the file may
// change between the two reads.
func (c *Checker) checkStreaming(path string) types.CheckResult {
	f, err := c.fs.Open(path)
	if err != nil {
		return failed(path, err.Error())
	}
	defer f.Close()

	issues := []types.Issue{}
	observed := false
	if c.checks.TrailingSpaces {
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		sc.Split(scanRawLines)
		n := 0
		for sc.Scan() {
			line := sc.Bytes()
			if !utf8.Valid(line) {
				break
			}
			observed = true
			n++
			if TrailingWhitespace(line) {
				issues = append(issues, trailingSpaceIssue(n))
			}
		}
	}

	if c.checks.NewlineEnding && (observed || !c.checks.TrailingSpaces) {
		if tail, err := readTail(f, TailSize); err == nil {
			if kind := ClassifyEnding(tail); kind != "" {
				issues = append(issues, endingIssue(kind))
			}
		}
	}
	return types.CheckResult{FilePath: path, Issues: issues}
}

// readTail returns up to n bytes from the end of r.
func readTail(r io.ReadSeeker, n int64) ([]byte, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	off := size - n
	if off < 0 {
		off = 0
	}
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, size-off)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
