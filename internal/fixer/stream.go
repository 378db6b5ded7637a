package fixer

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"

	"github.com/google/renameio/v2"

	"github.com/lineguard/lineguard/internal/checker"
)

// fixStreaming rewrites a large file line by line into a pending file.
// Whitespace-only lines are held back until a later line shows they are not
// at the end of the file, so the ending fix never needs the whole content.
func (f *Fixer) fixStreaming(path string, p plan) (bool, error) {
	in, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer in.Close()

	var w io.Writer = io.Discard
	var pending *renameio.PendingFile
	if !f.dryRun {
		pending, err = renameio.NewPendingFile(path, renameio.WithExistingPermissions())
		if err != nil {
			return false, err
		}
		defer pending.Cleanup()
		w = pending
	}

	orig, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer orig.Close()

	out := bufio.NewWriterSize(w, 64*1024)
	cw := &compareWriter{w: out, orig: bufio.NewReaderSize(orig, 64*1024)}
	if err := rewrite(in, cw, p); err != nil {
		return false, err
	}
	if err := out.Flush(); err != nil {
		return false, err
	}
	changed := cw.changed()
	if f.dryRun || !changed {
		return changed, nil
	}
	return true, pending.CloseAtomicallyReplace()
}

// rewrite copies src to w applying the plan. A run of whitespace-only lines
// is remembered as a byte range of src and read again once its fate is
// known, so memory stays bounded by the longest line.
func rewrite(src io.ReaderAt, w io.Writer, p plan) error {
	r := bufio.NewReaderSize(io.NewSectionReader(src, 0, math.MaxInt64), 64*1024)
	hold := p.ending || p.settle

	var (
		held     []byte // last line with non-whitespace content
		off      int64  // input offset of the next line
		runStart int64  // whitespace-only run after held, as [runStart, off)
		inRun    bool
		runTail  []byte // last checker.TailSize bytes of the rewritten run
	)
	flush := func() error {
		if held != nil {
			if _, err := w.Write(held); err != nil {
				return err
			}
			held = nil
		}
		if inRun {
			if err := copyRange(src, runStart, off, w, p.trailing); err != nil {
				return err
			}
			inRun, runTail = false, runTail[:0]
		}
		return nil
	}
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			n := int64(len(line))
			if p.trailing {
				line = trimLine(line)
			}
			switch {
			case !hold:
				if _, werr := w.Write(line); werr != nil {
					return werr
				}
			case len(bytes.TrimRight(line, eofSpace)) == 0:
				if !inRun {
					inRun, runStart = true, off
				}
				runTail = lastBytes(append(runTail, line...), checker.TailSize)
			default:
				if ferr := flush(); ferr != nil {
					return ferr
				}
				held = line
			}
			off += n
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if !hold {
		return nil
	}
	if p.settle {
		tail := append(append([]byte(nil), held...), runTail...)
		if checker.ClassifyEnding(tail) == "" {
			return flush()
		}
	}
	_, err := w.Write(append(bytes.TrimRight(held, eofSpace), '\n'))
	return err
}

// copyRange writes src[start:end] to w, trimming each line when trim is set.
func copyRange(src io.ReaderAt, start, end int64, w io.Writer, trim bool) error {
	r := bufio.NewReader(io.NewSectionReader(src, start, end-start))
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			if trim {
				line = trimLine(line)
			}
			if _, werr := w.Write(line); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func lastBytes(b []byte, n int) []byte {
	if len(b) > n {
		return append(b[:0], b[len(b)-n:]...)
	}
	return b
}

// compareWriter forwards writes and tracks whether the output differs from
// the original file.
type compareWriter struct {
	w       io.Writer
	orig    *bufio.Reader
	differs bool
	buf     []byte
}

func (c *compareWriter) Write(p []byte) (int, error) {
	if !c.differs {
		if cap(c.buf) < len(p) {
			c.buf = make([]byte, len(p))
		}
		b := c.buf[:len(p)]
		n, _ := io.ReadFull(c.orig, b)
		if n != len(p) || !bytes.Equal(b, p) {
			c.differs = true
		}
	}
	return c.w.Write(p)
}

func (c *compareWriter) changed() bool {
	if c.differs {
		return true
	}
	_, err := c.orig.ReadByte()
	return err == nil
}
