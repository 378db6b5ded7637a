package git

import "strings"

// Metadata is best-effort provenance for reports.
type Metadata struct {
	Repo   string
	Commit string
	Branch string
}

// Metadata returns the origin remote (owner/name when recognizable), the
// HEAD commit and the current branch. Missing pieces are left empty.
func (r *Repo) Metadata() Metadata {
	var m Metadata
	if rem, err := r.repo.Remote("origin"); err == nil {
		if urls := rem.Config().URLs; len(urls) > 0 {
			m.Repo = shortRemote(urls[0])
		}
	}
	if head, err := r.repo.Head(); err == nil {
		m.Commit = head.Hash().String()
		if head.Name().IsBranch() {
			m.Branch = head.Name().Short()
		}
	}
	return m
}

func shortRemote(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".git")
	if i := strings.Index(s, "github.com/"); i >= 0 {
		return s[i+len("github.com/"):]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 && !strings.Contains(s, "://") {
		return s[i+1:]
	}
	return s
}
