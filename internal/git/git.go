// Package git resolves revision ranges to the set of files they changed.
//
// Everything goes through go-git; no git binary is required. References are
// pinned to full commit hashes before any tree is diffed so that a branch
// moving mid-run does not change the answer.
package git

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	errUtils "github.com/lineguard/lineguard/internal/errors"
	"github.com/lineguard/lineguard/internal/types"
)

// Repo is a repository opened from a directory inside its worktree.
type Repo struct {
	repo *gogit.Repository
	root string
}

// Open finds the repository containing dir, searching parent directories.
// It fails with ErrNotARepository when there is none.
func Open(dir string) (*Repo, error) {
	if strings.ContainsRune(dir, 0) {
		return nil, errors.Newf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid path %q", dir)
	}
	r, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(errUtils.ErrNotARepository, "%s", abs)
		}
		return nil, errors.Wrapf(err, "open repository at %s", abs)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, errors.Wrapf(errUtils.ErrNotARepository, "%s: %v", abs, err)
	}
	return &Repo{repo: r, root: wt.Filesystem.Root()}, nil
}

// Root returns the absolute worktree root.
func (r *Repo) Root() string { return r.root }

// Resolve turns any revision expression (branch, tag, HEAD~2, hash prefix)
// into a full commit hash. Annotated tags are peeled to their commit.
func (r *Repo) Resolve(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", errors.Wrap(errUtils.ErrUnresolvableReference, "empty reference")
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", errors.Wrapf(errUtils.ErrUnresolvableReference, "%s: %v", ref, err)
	}
	c, err := r.commit(*h)
	if err != nil {
		return "", errors.Wrapf(errUtils.ErrUnresolvableReference, "%s: %v", ref, err)
	}
	return c.Hash.String(), nil
}

func (r *Repo) commit(h plumbing.Hash) (*object.Commit, error) {
	c, err := r.repo.CommitObject(h)
	if err == nil {
		return c, nil
	}
	tag, tagErr := r.repo.TagObject(h)
	if tagErr != nil {
		return nil, err
	}
	return tag.Commit()
}

// ChangedFiles lists the paths that differ between two pinned commits,
// as absolute paths under the worktree root. Paths that do not currently
// exist as regular files (deletions, directories, broken links) are omitted.
func (r *Repo) ChangedFiles(fromHash, toHash string) ([]string, error) {
	from, err := r.tree(fromHash)
	if err != nil {
		return nil, err
	}
	to, err := r.tree(toHash)
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTree(from, to)
	if err != nil {
		return nil, errors.Wrapf(err, "diff %s..%s", types.ShortHash(fromHash), types.ShortHash(toHash))
	}
	seen := map[string]bool{}
	var names []string
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, n := range names {
		p := filepath.Join(r.root, filepath.FromSlash(n))
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repo) tree(hash string) (*object.Tree, error) {
	c, err := r.commit(plumbing.NewHash(hash))
	if err != nil {
		return nil, errors.Wrapf(errUtils.ErrUnresolvableReference, "%s: %v", hash, err)
	}
	t, err := c.Tree()
	if err != nil {
		return nil, errors.Wrapf(err, "tree of %s", types.ShortHash(hash))
	}
	return t, nil
}

// ChangedRange pins from and to (default HEAD) and returns the changed
// files between them.
func (r *Repo) ChangedRange(from, to string) (types.GitRangeInfo, error) {
	if to == "" {
		to = "HEAD"
	}
	fromHash, err := r.Resolve(from)
	if err != nil {
		return types.GitRangeInfo{}, err
	}
	toHash, err := r.Resolve(to)
	if err != nil {
		return types.GitRangeInfo{}, err
	}
	files, err := r.ChangedFiles(fromHash, toHash)
	if err != nil {
		return types.GitRangeInfo{}, err
	}
	return types.GitRangeInfo{FromHash: fromHash, ToHash: toHash, ChangedFiles: files}, nil
}
