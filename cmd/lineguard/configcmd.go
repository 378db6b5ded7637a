package lineguard

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/lineguard/lineguard/internal/config"
	errUtils "github.com/lineguard/lineguard/internal/errors"
	"github.com/lineguard/lineguard/internal/files"
)

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}

	var (
		output    string
		force     bool
		generated bool
		gitignore bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .lineguardrc",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, output, force, generated, gitignore)
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", config.LocalNames[0], "output file path")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&generated, "ignore-generated", false, "pre-fill ignore_patterns with common generated files")
	initCmd.Flags().BoolVar(&gitignore, "gitignore-cache", true, "add the result cache file to .gitignore")

	var explicit string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, path, err := config.Load(explicit, wd)
			if err != nil {
				return errUtils.WithExitCode(errors.Wrap(err, "loading configuration"), errUtils.ExitConfigLoad)
			}
			out := cmd.OutOrStdout()
			if path == "" {
				path = "built-in defaults"
			}
			fmt.Fprintf(out, "# source: %s\n", path)
			return cfg.Encode(out)
		},
	}
	showCmd.Flags().StringVarP(&explicit, "config", "c", "", "path to a configuration file")

	cfgCmd.AddCommand(initCmd, showCmd)
	return cfgCmd
}

func runConfigInit(cmd *cobra.Command, output string, force, generated, gitignore bool) error {
	if _, err := os.Stat(output); err == nil && !force {
		return errUtils.WithExitCode(errors.Newf("%s already exists (use --force to overwrite)", output), errUtils.ExitUsage)
	}
	cfg := config.Default()
	if generated {
		cfg.IgnorePatterns = files.DefaultGeneratedIgnores()
	}
	var buf bytes.Buffer
	buf.WriteString("# lineguard configuration\n")
	if err := cfg.Encode(&buf); err != nil {
		return err
	}
	if err := renameio.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", output)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)

	if gitignore {
		dir := filepath.Dir(output)
		if err := files.AppendIgnore(dir, files.CacheFileName); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not update .gitignore: %v\n", err)
		}
	}
	return nil
}
