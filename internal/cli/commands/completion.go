package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCompletionCommand creates the completion command for shell completions
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for organic-growth.

To load completions:

Bash:

  $ source <(organic-growth completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ organic-growth completion bash > /etc/bash_completion.d/organic-growth
  # macOS:
  $ organic-growth completion bash > $(brew --prefix)/etc/bash_completion.d/organic-growth

Zsh:

  $ organic-growth completion zsh > "${fpath[1]}/_organic-growth"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ organic-growth completion fish > ~/.config/fish/completions/organic-growth.fish

PowerShell:

  PS> organic-growth completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()

			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}

	return cmd
}
