package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stellarmap.

To load completions:

Bash:
  $ source <(stellarmap completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ stellarmap completion bash > /etc/bash_completion.d/stellarmap
  # macOS:
  $ stellarmap completion bash > $(brew --prefix)/etc/bash_completion.d/stellarmap

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ stellarmap completion zsh > "${fpath[1]}/_stellarmap"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ stellarmap completion fish | source

  # To load completions for each session, execute once:
  $ stellarmap completion fish > ~/.config/fish/completions/stellarmap.fish

PowerShell:
  PS> stellarmap completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> stellarmap completion powershell > stellarmap.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// maxCompletions bounds the star names offered for one prefix.
const maxCompletions = 50

// completeStarNames offers catalog star names starting with the typed prefix
// (case-insensitive). It reads the catalog from the --catalog flag or the
// config and offers nothing when neither is set.
func (c *CLI) completeStarNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := c.config()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	source, _ := cmd.Flags().GetString("catalog")
	if cfg.Catalog.ResolveSource(source) == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	h, err := c.openCatalog(cmd.Context(), cfg, source, false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer h.Close()

	stars, err := h.All(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	prefix := strings.ToLower(toComplete)
	var names []string
	for _, s := range firstByName(stars, 0) {
		if strings.HasPrefix(strings.ToLower(s.Name), prefix) {
			names = append(names, s.Name)
			if len(names) == maxCompletions {
				break
			}
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
