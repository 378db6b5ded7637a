// Package ignore decides whether a candidate path is excluded by the
// configured ignore patterns.
package ignore

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type pattern struct {
	glob   string
	hasSep bool
}

// Matcher holds ignore patterns validated once per run. It is safe for
// concurrent use.
type Matcher struct {
	root     string
	patterns []pattern
}

// New validates patterns and returns a matcher whose relative paths are
// computed against root. Invalid patterns are dropped and never match.
func New(patterns []string, root string) *Matcher {
	m := &Matcher{root: filepath.Clean(root)}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || !doublestar.ValidatePattern(p) {
			continue
		}
		m.patterns = append(m.patterns, pattern{
			glob:   p,
			hasSep: strings.ContainsAny(p, `/\`),
		})
	}
	return m
}

// Len reports the number of usable patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Match reports whether p is ignored. A pattern matches when it matches the
// normalized path, the bare file name (patterns without a separator only),
// or any ancestor directory of the normalized path.
func (m *Matcher) Match(p string) bool {
	if m.Len() == 0 {
		return false
	}
	return m.matchNormalized(m.normalize(p))
}

// MatchUnder is Match, additionally trying p relative to base, the directory
// argument a walk started from. Patterns written for a project therefore
// apply even when it is linted from outside.
func (m *Matcher) MatchUnder(p, base string) bool {
	if m.Match(p) {
		return true
	}
	if m.Len() == 0 || base == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(p))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return m.matchNormalized(filepath.ToSlash(rel))
}

func (m *Matcher) matchNormalized(norm string) bool {
	base := path.Base(norm)
	for _, pt := range m.patterns {
		if match(pt.glob, norm) {
			return true
		}
		if !pt.hasSep && match(pt.glob, base) {
			return true
		}
		for dir := path.Dir(norm); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if match(pt.glob, dir) {
				return true
			}
		}
	}
	return false
}

// normalize collapses . and .. lexically and makes p relative to the root
// when it lies below it. The result uses forward slashes.
func (m *Matcher) normalize(p string) string {
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) && m.root != "" && m.root != "." {
		if rel, err := filepath.Rel(m.root, clean); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			clean = rel
		}
	}
	return filepath.ToSlash(clean)
}

func match(glob, name string) bool {
	ok, err := doublestar.Match(glob, name)
	return err == nil && ok
}
