package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// orderFileExts are the order file formats order.Load reads.
var orderFileExts = []string{"toml", "yaml", "yml", "json"}

// completeOrderFile offers order files for the first argument of render
// and submit, and nothing after it.
func completeOrderFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return orderFileExts, cobra.ShellCompDirectiveFilterFileExt
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for magnetsheet. Order file arguments
complete to .toml, .yaml and .json files.

  $ source <(magnetsheet completion bash)
  $ magnetsheet completion zsh > "${fpath[1]}/_magnetsheet"
  $ magnetsheet completion fish > ~/.config/fish/completions/magnetsheet.fish
  PS> magnetsheet completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], os.Stdout)
		},
	}
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return nil
}
