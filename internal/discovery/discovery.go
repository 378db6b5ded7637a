// Package discovery resolves command-line inputs into the ordered,
// de-duplicated list of files to check.
//
// Each input (an argument, or a line read from stdin) is a directory to
// walk, a glob to expand, or a literal path. Every candidate then passes
// the same filter pipeline: regular file, extension policy, ignore
// patterns, hidden-file policy. An optional git range narrows the result
// to files changed between two pinned revisions.
package discovery

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/lineguard/lineguard/internal/config"
	errUtils "github.com/lineguard/lineguard/internal/errors"
	"github.com/lineguard/lineguard/internal/files"
	"github.com/lineguard/lineguard/internal/git"
	"github.com/lineguard/lineguard/internal/ignore"
	"github.com/lineguard/lineguard/internal/logger"
	"github.com/lineguard/lineguard/internal/types"
)

// GitRange pins revisions and lists the files changed between them.
type GitRange interface {
	Resolve(ref string) (string, error)
	ChangedFiles(fromHash, toHash string) ([]string, error)
}

// Options are the discovery inputs taken from the command line.
type Options struct {
	Paths     []string
	ReadStdin bool
	Stdin     io.Reader
	Recursive bool
	NoHidden  bool
	From      string
	To        string

	// WorkDir anchors relative paths and ignore matching. Defaults to the
	// process working directory.
	WorkDir string
	// FS defaults to the host file system.
	FS files.FileSystem
	// OpenGit defaults to opening the repository containing WorkDir.
	OpenGit func(dir string) (GitRange, error)
	Logger  *log.Logger
}

// Result is the discovery outcome. GitRange is set only when a range was
// requested.
type Result struct {
	Files    []string
	GitRange *types.GitRangeInfo
}

type source int

const (
	fromLiteral source = iota
	fromWalk
	fromGlob
)

type discoverer struct {
	opts   Options
	fs     files.FileSystem
	log    *log.Logger
	ignore *ignore.Matcher
	allow  map[string]bool
	seen   map[string]bool
	files  []string

	// walkRoot is the directory argument being walked, "" otherwise.
	walkRoot string
}

// Discover resolves opts against cfg. Failures are fatal: a stdin read
// error, a directory outside any repository, or an unresolvable revision.
// No partial list is returned alongside an error.
func Discover(opts Options, cfg config.Config) (Result, error) {
	d, err := newDiscoverer(opts, cfg)
	if err != nil {
		return Result{}, err
	}

	inputs := opts.Paths
	if opts.ReadStdin {
		inputs, err = readLines(opts.Stdin)
		if err != nil {
			return Result{}, err
		}
	}
	for _, in := range inputs {
		d.resolve(in)
	}

	res := Result{Files: d.files}
	if opts.From == "" {
		return res, nil
	}
	info, err := d.narrow()
	if err != nil {
		return Result{}, err
	}
	res.Files = d.files
	res.GitRange = info
	return res, nil
}

func newDiscoverer(opts Options, cfg config.Config) (*discoverer, error) {
	if opts.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "working directory")
		}
		opts.WorkDir = wd
	}
	if abs, err := filepath.Abs(opts.WorkDir); err == nil {
		opts.WorkDir = abs
	}
	if opts.FS == nil {
		opts.FS = files.OS()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.OpenGit == nil {
		opts.OpenGit = func(dir string) (GitRange, error) { return git.Open(dir) }
	}
	d := &discoverer{
		opts:   opts,
		fs:     opts.FS,
		log:    opts.Logger,
		ignore: ignore.New(cfg.IgnorePatterns, opts.WorkDir),
		seen:   map[string]bool{},
	}
	if exts := config.NormalizeExtensions(cfg.FileExtensions); len(exts) > 0 {
		d.allow = make(map[string]bool, len(exts))
		for _, e := range exts {
			d.allow[e] = true
		}
	}
	return d, nil
}

func readLines(r io.Reader) ([]string, error) {
	if r == nil {
		r = os.Stdin
	}
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(errUtils.ErrStdinRead, "%v", err)
	}
	return out, nil
}

// resolve expands one input into candidates.
func (d *discoverer) resolve(arg string) {
	if st, err := d.fs.Stat(arg); err == nil && st.IsDir() {
		d.walkRoot = arg
		d.walk(arg)
		d.walkRoot = ""
		return
	}
	if hasGlobMeta(arg) {
		matches, err := d.fs.Glob(arg)
		if err == nil && len(matches) > 0 {
			for _, m := range matches {
				d.consider(m, fromGlob)
			}
			return
		}
		d.log.Debug("glob matched nothing, trying literal path", "pattern", arg)
	}
	d.consider(arg, fromLiteral)
}

// consider runs the filter pipeline and appends p when it passes and has
// not been seen before.
func (d *discoverer) consider(p string, src source) {
	st, err := d.fs.Stat(p)
	if err != nil || !st.Mode().IsRegular() {
		return
	}
	if !allowedExtension(p, d.allow) {
		return
	}
	if d.ignore.MatchUnder(p, d.walkRoot) {
		return
	}
	if d.opts.NoHidden && src != fromLiteral && isHidden(p) {
		return
	}
	key := d.absKey(p)
	if d.seen[key] {
		return
	}
	d.seen[key] = true
	d.files = append(d.files, p)
}

func (d *discoverer) absKey(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(d.opts.WorkDir, p)
	}
	return filepath.Clean(p)
}

// narrow pins both revisions, then keeps only discovered files present in
// the changed set, preserving discovery order.
func (d *discoverer) narrow() (*types.GitRangeInfo, error) {
	repo, err := d.opts.OpenGit(d.opts.WorkDir)
	if err != nil {
		return nil, err
	}
	to := d.opts.To
	if to == "" {
		to = "HEAD"
	}
	fromHash, err := repo.Resolve(d.opts.From)
	if err != nil {
		return nil, err
	}
	toHash, err := repo.Resolve(to)
	if err != nil {
		return nil, err
	}
	d.log.Debug("pinned git range", "from", fromHash, "to", toHash)

	changed, err := repo.ChangedFiles(fromHash, toHash)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(changed))
	for _, c := range changed {
		set[d.absKey(c)] = true
	}
	kept := d.files[:0:0]
	for _, f := range d.files {
		if set[d.absKey(f)] {
			kept = append(kept, f)
		}
	}
	d.files = kept
	return &types.GitRangeInfo{FromHash: fromHash, ToHash: toHash, ChangedFiles: changed}, nil
}
