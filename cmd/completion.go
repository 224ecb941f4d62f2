package cmd

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// detectShell auto-detects the current shell from environment
func detectShell() string {
	shell := os.Getenv("SHELL")
	shellLower := strings.ToLower(shell)

	// Check for specific shells
	if strings.Contains(shellLower, "fish") {
		return "fish"
	}
	if strings.Contains(shellLower, "zsh") {
		return "zsh"
	}
	if strings.Contains(shellLower, "pwsh") || strings.Contains(shellLower, "powershell") {
		return "powershell"
	}

	// Default to bash
	return "bash"
}

// inputExtensions are the file suffixes offered when completing the input argument.
var inputExtensions = []string{"in", "inp"}

// completeInputFiles restricts completion of the single positional argument to Q-Chem inputs.
func completeInputFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return inputExtensions, cobra.ShellCompDirectiveFilterFileExt
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: func() string {
			detected := detectShell()
			return `Generate shell completion script for qcsub.

If no shell is specified, ` + detected + ` will be used (auto-detected from $SHELL).

To load completions:

Bash:
  $ source <(qcsub completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ qcsub completion bash > /etc/bash_completion.d/qcsub
  # macOS:
  $ qcsub completion bash > $(brew --prefix)/etc/bash_completion.d/qcsub

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ qcsub completion zsh > "${fpath[1]}/_qcsub"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ qcsub completion fish | source

  # To load completions for each session, execute once:
  $ qcsub completion fish > ~/.config/fish/completions/qcsub.fish

PowerShell:
  PS> qcsub completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> qcsub completion powershell > qcsub.ps1
  # and source this file from your PowerShell profile.
`
		}(),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			shell := detectShell()
			if len(args) > 0 {
				shell = args[0]
			}

			// Completion lists long options only; shorthands come back afterwards.
			saved := stripShortFlagShorthands(cmd.Root())
			defer restoreShortFlagShorthands(cmd.Root(), saved)

			switch shell {
			case "bash":
				var buf bytes.Buffer
				if err := cmd.Root().GenBashCompletionV2(&buf, true); err != nil {
					buf.Reset()
					_ = cmd.Root().GenBashCompletion(&buf)
				}
				out.Write(buf.Bytes())
			case "zsh":
				cmd.Root().GenZshCompletion(out)
			case "fish":
				cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// stripShortFlagShorthands walks the command tree and clears the Shorthand
// field for any flag that has one, returning a map of saved values so they
// can be restored later.
func stripShortFlagShorthands(root *cobra.Command) map[string]string {
	saved := make(map[string]string)

	// Helper to strip shorthand from a flag and save it
	stripFlag := func(f *pflag.Flag) {
		if f.Shorthand != "" {
			saved[f.Name] = f.Shorthand
			f.Shorthand = ""
		}
	}

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		// Strip from local flags
		c.LocalFlags().VisitAll(stripFlag)
		// Strip from persistent flags defined on this command
		c.PersistentFlags().VisitAll(stripFlag)
		// Strip from inherited flags (persistent flags from parent commands)
		c.InheritedFlags().VisitAll(stripFlag)

		for _, child := range c.Commands() {
			walk(child)
		}
	}
	walk(root)
	return saved
}

// restoreShortFlagShorthands restores previously-saved shorthand values.
func restoreShortFlagShorthands(root *cobra.Command, saved map[string]string) {
	// Helper to restore shorthand for a flag
	restoreFlag := func(f *pflag.Flag) {
		if old, ok := saved[f.Name]; ok {
			f.Shorthand = old
		}
	}

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.LocalFlags().VisitAll(restoreFlag)
		c.PersistentFlags().VisitAll(restoreFlag)
		c.InheritedFlags().VisitAll(restoreFlag)

		for _, child := range c.Commands() {
			walk(child)
		}
	}
	walk(root)
}
