package lineguard

import (
	"fmt"

	"github.com/spf13/cobra"

	errUtils "github.com/lineguard/lineguard/internal/errors"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Args:      usageArgs(cobra.ExactArgs(1)),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return errUtils.WithExitCode(fmt.Errorf("unsupported shell: %s", args[0]), errUtils.ExitUsage)
			}
		},
		Example: `
# Bash
lineguard completion bash > /etc/bash_completion.d/lineguard

# Zsh
lineguard completion zsh > "${fpath[1]}/_lineguard"

# Fish
lineguard completion fish > ~/.config/fish/completions/lineguard.fish

# PowerShell
lineguard completion powershell > $PROFILE\lineguard.ps1
`,
	}
}
