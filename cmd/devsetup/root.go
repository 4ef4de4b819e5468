package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/example/devsetup/internal/version"
	"github.com/example/devsetup/pkg/config"
	"github.com/example/devsetup/pkg/execx"
	"github.com/example/devsetup/pkg/logging"
	"github.com/example/devsetup/pkg/manager"
	"github.com/example/devsetup/pkg/paths"
	"github.com/example/devsetup/pkg/style"
)

var (
	verbosity int
	noColor   bool

	rootCmd = &cobra.Command{
		Use:   "devsetup",
		Short: "A development environment bootstrapper",
		Long: `devsetup installs and configures a development environment on a single
Linux/macOS workstation: the oh-my-zsh shell framework, the Claude Code CLI
with its MCP plugins, and your personal dotfiles.

Every operation is idempotent: re-running it when everything is already in
the desired state changes nothing.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			style.EnableColor(!noColor && style.IsTerminal())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(docsCmd)
}

// newManager wires paths, configuration and the OS runner into a manager.
func newManager() (*manager.Manager, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(p.UserConfigPath())
	if err != nil {
		return nil, err
	}
	if cfg.BackupDir != "" {
		p.SetBackupDir(cfg.BackupDir)
	}
	return manager.New(execx.NewOSRunner(), p, cfg), nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("devsetup version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(devsetup completion bash)

Zsh:
  $ devsetup completion zsh > "${fpath[1]}/_devsetup"

Fish:
  $ devsetup completion fish | source

PowerShell:
  PS> devsetup completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}
