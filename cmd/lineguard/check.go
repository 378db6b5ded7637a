package lineguard

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	charm "github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lineguard/lineguard/internal/config"
	"github.com/lineguard/lineguard/internal/discovery"
	"github.com/lineguard/lineguard/internal/engine"
	errUtils "github.com/lineguard/lineguard/internal/errors"
	"github.com/lineguard/lineguard/internal/fixer"
	"github.com/lineguard/lineguard/internal/git"
	"github.com/lineguard/lineguard/internal/logger"
	"github.com/lineguard/lineguard/internal/report"
	"github.com/lineguard/lineguard/internal/types"
)

// progressThreshold is the file count above which a progress bar is shown.
const progressThreshold = 10

func runCheck(cmd *cobra.Command, o *options, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	level, ok := logger.ParseLevel(o.logLevel)
	if !ok {
		return errUtils.WithExitCode(errors.Newf("unknown log level %q", o.logLevel), errUtils.ExitUsage)
	}
	if o.verbose {
		level = charm.DebugLevel
	}
	log := logger.New(errOut, level)
	logger.SetDefault(log)

	format, err := report.ParseFormat(o.format)
	if err != nil {
		return errUtils.WithExitCode(err, errUtils.ExitUsage)
	}
	if o.to != "" && o.from == "" {
		return errUtils.WithExitCode(errors.New("--to requires --from"), errUtils.ExitUsage)
	}
	if o.dryRun && !o.fix {
		log.Warn("--dry-run has no effect without --fix")
	}

	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "working directory")
	}
	cfg, cfgPath, err := config.Load(o.configPath, wd)
	if err != nil {
		return errUtils.WithExitCode(errors.Wrap(err, "loading configuration"), errUtils.ExitConfigLoad)
	}
	if cfgPath != "" {
		log.Debug("loaded configuration", "path", cfgPath)
	}
	cfg = cfg.Apply(config.Overrides{
		IgnorePatterns:  o.ignore,
		Extensions:      splitList(o.extensions),
		ExtensionsSet:   cmd.Flags().Changed("extensions"),
		NoNewlineCheck:  o.noNewlineCheck,
		NoTrailingSpace: o.noTrailingSpace,
	})

	human := format == report.FormatHuman
	var bar *progressBar
	var empty bool

	ecfg := engine.Config{
		Discovery: discovery.Options{
			Paths:     args,
			ReadStdin: o.stdin,
			Stdin:     cmd.InOrStdin(),
			Recursive: o.recursive,
			NoHidden:  o.noHidden,
			From:      o.from,
			To:        o.to,
			WorkDir:   wd,
			Logger:    log,
		},
		Lint:     cfg,
		Threads:  o.threads,
		UseCache: o.cache && !o.fix,
	}
	ecfg.OnDiscovered = func(d discovery.Result) {
		if o.verbose && d.GitRange != nil {
			printGitRange(out, d.GitRange, o.quiet)
		}
		n := len(d.Files)
		if n == 0 {
			empty = true
			return
		}
		if !o.quiet && human && n > 1 {
			if o.fix {
				report.FixHeader(out, n, o.dryRun)
			} else {
				fmt.Fprintf(out, "Checking %d files...\n", n)
			}
		}
		if !o.quiet && human && n > progressThreshold && isTerminal(errOut) {
			bar = newProgressBar(errOut, n)
		}
	}
	ecfg.Progress = func() {
		if bar != nil {
			bar.Increment()
		}
	}

	res, err := engine.Run(ecfg)
	if bar != nil {
		bar.Clear()
	}
	if err != nil {
		return err
	}
	if empty && !o.quiet {
		fmt.Fprintln(errOut, "No files found to check")
		return nil
	}
	log.Debug("check finished", "files", len(res.Files), "duration", res.Duration, "cache_hits", res.CacheHits)

	if o.fix {
		return runFix(out, errOut, o, format, cfg, res.Results)
	}

	if !o.quiet {
		for _, r := range res.Errors() {
			fmt.Fprintln(errOut, r.Error)
		}
	}
	hasIssues := res.HasIssues()
	if !o.quiet || hasIssues {
		rep, err := report.New(format, reportOptions(o, format, out, wd))
		if err != nil {
			return errUtils.WithExitCode(err, errUtils.ExitUsage)
		}
		if err := rep.Report(out, res.Results); err != nil {
			return errors.Wrap(err, "writing report")
		}
	}
	if hasIssues {
		return errUtils.WithExitCode(errUtils.ErrIssuesFound, errUtils.ExitIssues)
	}
	return nil
}

func reportOptions(o *options, format report.Format, out io.Writer, wd string) report.Options {
	color := !o.noColor && os.Getenv("NO_COLOR") == "" && isTerminal(out)
	opts := report.Options{NoColor: !color, Highlight: color, Version: version}
	if format == report.FormatSARIF {
		if repo, err := git.Open(wd); err == nil {
			md := repo.Metadata()
			opts.Provenance = &md
		}
	}
	return opts
}

func printGitRange(w io.Writer, gr *types.GitRangeInfo, quiet bool) {
	fmt.Fprintf(w, "Git range: %s..%s\n", types.ShortHash(gr.FromHash), types.ShortHash(gr.ToHash))
	fmt.Fprintf(w, "Changed files: %d\n", len(gr.ChangedFiles))
	if !quiet {
		for _, f := range gr.ChangedFiles {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	fmt.Fprintln(w)
}

// runFix rewrites every file that has issues. Fix failures exit 1; lint
// issues alone do not.
func runFix(out, errOut io.Writer, o *options, format report.Format, cfg config.Config, results []types.CheckResult) error {
	fx := fixer.New(cfg, o.dryRun)
	var (
		mu       sync.Mutex
		fixed    = make([]fixer.Result, len(results))
		failures []report.FixError
		g        errgroup.Group
	)
	if o.threads > 0 {
		g.SetLimit(o.threads)
	}
	for i, r := range results {
		fixed[i] = fixer.Result{FilePath: r.FilePath, IssuesFixed: []types.Issue{}}
		if !r.HasIssues() {
			continue
		}
		i, r := i, r
		g.Go(func() error {
			fr, err := fx.Fix(r.FilePath, r.Issues)
			if err != nil {
				mu.Lock()
				failures = append(failures, report.FixError{Path: r.FilePath, Err: err})
				mu.Unlock()
				return nil
			}
			fixed[i] = fr
			return nil
		})
	}
	_ = g.Wait()
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })

	if !o.quiet {
		switch format {
		case report.FormatHuman:
			report.FixResults(out, errOut, fixed, failures, o.dryRun)
		case report.FormatJSON:
			if err := report.FixJSON(out, fixed); err != nil {
				return errors.Wrap(err, "writing report")
			}
			report.FixResults(io.Discard, errOut, nil, failures, o.dryRun)
		default:
			report.FixResults(io.Discard, errOut, nil, failures, o.dryRun)
		}
	}
	if len(failures) > 0 {
		return errUtils.WithExitCode(errors.Mark(errors.Newf("%d file(s) could not be fixed", len(failures)), errUtils.ErrFixFailed), errUtils.ExitIssues)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
