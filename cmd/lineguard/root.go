package lineguard

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	errUtils "github.com/lineguard/lineguard/internal/errors"
	"github.com/lineguard/lineguard/internal/report"
)

var version = "0.1.0"

// options holds every root flag for one invocation.
type options struct {
	stdin           bool
	recursive       bool
	format          string
	quiet           bool
	verbose         bool
	noColor         bool
	configPath      string
	ignore          []string
	extensions      string
	noNewlineCheck  bool
	noTrailingSpace bool
	fix             bool
	dryRun          bool
	from            string
	to              string
	noHidden        bool
	threads         int
	cache           bool
	logLevel        string
}

// newRootCmd builds a fresh command tree so tests can run it repeatedly.
func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "lineguard [files...]",
		Short: "Lint files for trailing whitespace and bad file endings",
		Long: "lineguard checks that text files end with exactly one newline and carry no\n" +
			"trailing spaces or tabs. Arguments may be files, directories or glob\n" +
			"patterns; --from/--to restrict the check to files changed in a git range.",
		Version:       version,
		Args:          usageArgs(cobra.ArbitraryArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, o, args)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errUtils.WithExitCode(err, errUtils.ExitUsage)
	})

	f := cmd.Flags()
	f.BoolVar(&o.stdin, "stdin", false, "read the file list from standard input, one path per line")
	f.BoolVarP(&o.recursive, "recursive", "r", false, "recurse into subdirectories")
	f.StringVarP(&o.format, "format", "f", string(report.FormatHuman), "output format: human|json|github|sarif|table")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "only print results when issues are found")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "print git range details and debug logs")
	f.BoolVar(&o.noColor, "no-color", false, "disable colorized output")
	f.StringVarP(&o.configPath, "config", "c", "", "path to a configuration file")
	f.StringArrayVar(&o.ignore, "ignore", nil, "glob pattern to ignore (repeatable, replaces configured patterns)")
	f.StringVar(&o.extensions, "extensions", "", "comma-separated extensions to check (e.g. go,md)")
	f.BoolVar(&o.noNewlineCheck, "no-newline-check", false, "disable the end-of-file newline check")
	f.BoolVar(&o.noTrailingSpace, "no-trailing-space", false, "disable the trailing whitespace check")
	f.BoolVar(&o.fix, "fix", false, "rewrite files to fix the issues found")
	f.BoolVar(&o.dryRun, "dry-run", false, "with --fix, report what would change without writing")
	f.StringVar(&o.from, "from", "", "only check files changed since this git revision")
	f.StringVar(&o.to, "to", "", "end of the git range (default HEAD)")
	f.BoolVar(&o.noHidden, "no-hidden", false, "skip hidden files and directories")
	f.IntVar(&o.threads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	f.BoolVar(&o.cache, "cache", false, "reuse results for unchanged files between runs")
	f.StringVar(&o.logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	cmd.AddCommand(newConfigCmd(), newCompletionCmd())
	return cmd
}

// Execute runs the lineguard CLI and exits with the resulting code. It should
// be called by the main package.
func Execute() {
	os.Exit(run(newRootCmd(), os.Args[1:]))
}

// run executes cmd with args and maps the outcome to a process exit code.
func run(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return errUtils.ExitOK
	}
	code := errUtils.GetExitCode(err)
	if !errors.Is(err, errUtils.ErrIssuesFound) && !errors.Is(err, errUtils.ErrFixFailed) {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
	}
	return code
}

// usageArgs tags positional argument errors with the usage exit code, the
// way the flag error hook does for flags.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return errUtils.WithExitCode(err, errUtils.ExitUsage)
		}
		return nil
	}
}
