package engine

import (
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lineguard/lineguard/internal/cache"
	"github.com/lineguard/lineguard/internal/checker"
	"github.com/lineguard/lineguard/internal/config"
	"github.com/lineguard/lineguard/internal/discovery"
	errUtils "github.com/lineguard/lineguard/internal/errors"
	"github.com/lineguard/lineguard/internal/files"
	"github.com/lineguard/lineguard/internal/logger"
	"github.com/lineguard/lineguard/internal/types"
)

// Config controls one lint run.
type Config struct {
	Discovery discovery.Options
	Lint      config.Config

	// Threads bounds concurrent checks; 0 means GOMAXPROCS.
	Threads int
	// UseCache enables the on-disk result cache stored under CacheRoot
	// (defaults to the discovery working directory).
	UseCache  bool
	CacheRoot string
	// StreamThreshold overrides the checker's streaming threshold.
	StreamThreshold int64
	// Progress is called once per finished file, possibly concurrently.
	Progress func()
	// OnDiscovered, when set, sees the file list before any file is checked.
	OnDiscovered func(discovery.Result)
}

// Result is the outcome of a run. Results are in discovery order.
type Result struct {
	Files     []string
	Results   []types.CheckResult
	GitRange  *types.GitRangeInfo
	Duration  time.Duration
	CacheHits int
}

// HasIssues reports whether any file carries a lint issue.
func (r Result) HasIssues() bool {
	for _, res := range r.Results {
		if res.HasIssues() {
			return true
		}
	}
	return false
}

// IssueCount returns the total number of issues across files.
func (r Result) IssueCount() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Issues)
	}
	return n
}

// FilesWithIssues returns the number of files with at least one issue.
func (r Result) FilesWithIssues() int {
	n := 0
	for _, res := range r.Results {
		if res.HasIssues() {
			n++
		}
	}
	return n
}

// Errors returns the results that could not be checked.
func (r Result) Errors() []types.CheckResult {
	var out []types.CheckResult
	for _, res := range r.Results {
		if res.HasError() {
			out = append(out, res)
		}
	}
	return out
}

// Run discovers files and checks them. Discovery failures are returned
// with exit code 3; per-file failures are reported inside Results.
func Run(cfg Config) (Result, error) {
	started := time.Now()
	lint := cfg.Lint.Clone()

	disc, err := discovery.Discover(cfg.Discovery, lint)
	if err != nil {
		return Result{}, errUtils.WithExitCode(err, errUtils.ExitDiscovery)
	}
	res := Result{Files: disc.Files, GitRange: disc.GitRange}
	if cfg.OnDiscovered != nil {
		cfg.OnDiscovered(disc)
	}
	if len(disc.Files) == 0 {
		res.Duration = time.Since(started)
		return res, nil
	}

	chk := checker.New(lint, cfg.Discovery.FS)
	chk.StreamThreshold = cfg.StreamThreshold

	opts := CheckOptions{Threads: cfg.Threads, Progress: cfg.Progress, FS: cfg.Discovery.FS, Checks: lint.Checks}
	var root string
	if cfg.UseCache {
		root = cfg.CacheRoot
		if root == "" {
			root = cfg.Discovery.WorkDir
		}
		if root == "" {
			root = "."
		}
		db, err := cache.Load(root)
		if err != nil {
			logger.Default().Debug("starting with empty cache", "error", err)
		}
		opts.Cache = db
		opts.WorkDir = cfg.Discovery.WorkDir
	}

	res.Results, res.CacheHits = CheckFiles(chk, disc.Files, opts)

	if opts.Cache != nil {
		if err := cache.Save(root, opts.Cache); err != nil {
			logger.Default().Warn("could not save cache", "error", err)
		}
	}
	res.Duration = time.Since(started)
	return res, nil
}

// CheckOptions tune CheckFiles.
type CheckOptions struct {
	Threads  int
	Progress func()

	// Cache, when set, is consulted before checking and updated after.
	// Fingerprints are computed with FS (host file system when nil) and
	// keys are absolute paths resolved against WorkDir.
	Cache   *cache.DB
	FS      files.FileSystem
	WorkDir string
	Checks  config.Checks
}

// CheckFiles checks paths concurrently and returns results in input order
// with the number of cache hits. It never fails; per-file errors are data.
func CheckFiles(chk *checker.Checker, paths []string, opts CheckOptions) ([]types.CheckResult, int) {
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = files.OS()
	}

	results := make([]types.CheckResult, len(paths))
	var hits atomic.Int64
	var g errgroup.Group
	g.SetLimit(threads)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			defer func() {
				if opts.Progress != nil {
					opts.Progress()
				}
			}()
			if opts.Cache == nil {
				results[i] = chk.Check(p)
				return nil
			}
			key := absKey(p, opts.WorkDir)
			st, err := fsys.Stat(p)
			if err != nil {
				results[i] = chk.Check(p)
				return nil
			}
			fp := cache.Fingerprint(st, opts.Checks)
			if issues, ok := opts.Cache.Lookup(key, fp); ok {
				hits.Add(1)
				results[i] = types.CheckResult{FilePath: p, Issues: issues}
				return nil
			}
			results[i] = chk.Check(p)
			if !results[i].HasError() {
				opts.Cache.Store(key, fp, results[i].Issues)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, int(hits.Load())
}

func absKey(p, workDir string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if workDir != "" {
		return filepath.Join(workDir, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
