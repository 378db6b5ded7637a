package core

import (
	"github.com/lineguard/lineguard/internal/checker"
	"github.com/lineguard/lineguard/internal/config"
	"github.com/lineguard/lineguard/internal/discovery"
	"github.com/lineguard/lineguard/internal/engine"
	"github.com/lineguard/lineguard/internal/fixer"
	"github.com/lineguard/lineguard/internal/types"
)

type (
	Config      = config.Config
	Checks      = config.Checks
	Issue       = types.Issue
	IssueKind   = types.IssueKind
	CheckResult = types.CheckResult
	Result      = engine.Result
	FixResult   = fixer.Result
)

const (
	MissingNewline   = types.MissingNewline
	MultipleNewlines = types.MultipleNewlines
	TrailingSpace    = types.TrailingSpace
)

// RunOptions select the files to check.
type RunOptions struct {
	Paths     []string
	Recursive bool
	NoHidden  bool
	// From and To restrict the run to files changed in a git range.
	From string
	To   string
	// WorkDir defaults to the process working directory.
	WorkDir string
	Threads int
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config { return config.Default() }

// LoadConfig resolves configuration the same way the CLI does.
func LoadConfig(explicit, workDir string) (Config, error) {
	cfg, _, err := config.Load(explicit, workDir)
	return cfg, err
}

// Run discovers and checks files.
func Run(opts RunOptions, cfg Config) (Result, error) {
	return engine.Run(engine.Config{
		Discovery: discovery.Options{
			Paths:     opts.Paths,
			Recursive: opts.Recursive,
			NoHidden:  opts.NoHidden,
			From:      opts.From,
			To:        opts.To,
			WorkDir:   opts.WorkDir,
		},
		Lint:    cfg,
		Threads: opts.Threads,
	})
}

// CheckFile checks a single file on disk.
func CheckFile(path string, cfg Config) CheckResult {
	return checker.New(cfg, nil).Check(path)
}

// CheckContent checks an in-memory buffer.
func CheckContent(content []byte, cfg Config) []Issue {
	return checker.New(cfg, nil).CheckContent(content)
}

// Fix rewrites path to remove issues. With dryRun nothing is written.
func Fix(path string, issues []Issue, cfg Config, dryRun bool) (FixResult, error) {
	return fixer.New(cfg, dryRun).Fix(path, issues)
}
