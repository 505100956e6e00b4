package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completions [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for herscat.

To load completions:

Bash:
  $ source <(herscat completions bash)
  # To load completions for each session, execute once:
  # Linux:
  $ herscat completions bash > /etc/bash_completion.d/herscat
  # macOS:
  $ herscat completions bash > $(brew --prefix)/etc/bash_completion.d/herscat

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ herscat completions zsh > "${fpath[1]}/_herscat"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ herscat completions fish | source
  # To load completions for each session, execute once:
  $ herscat completions fish > ~/.config/fish/completions/herscat.fish

PowerShell:
  PS> herscat completions powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> herscat completions powershell > herscat.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}
