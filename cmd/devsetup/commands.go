package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/execx"
	"github.com/example/devsetup/pkg/installers/dotfiles"
	"github.com/example/devsetup/pkg/manager"
	"github.com/example/devsetup/pkg/style"
	"github.com/example/devsetup/pkg/system"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all components and whether they are installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		m.List(cmd.OutOrStdout())
		return nil
	},
}

var installYes bool

func init() {
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "Continue past failures without prompting")
}

var installCmd = &cobra.Command{
	Use:   "install [component]",
	Short: "Install components",
	Long: `Install a specific component, or everything in dependency order when no
component (or "all") is given. Components already installed are left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		if len(args) == 0 || args[0] == "all" {
			results := m.InstallAll(cmd.Context(), installYes)
			var failed int
			for _, r := range results {
				if !r.Ok() {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n",
						style.Glyph(style.StatusError), r.Component, r.Err)
				}
			}
			if !manager.AllOk(results) {
				return errors.Newf(errors.ErrInstallFailed,
					"%d of %d components failed to install", failed, len(results))
			}
			return nil
		}

		c, err := manager.Parse(args[0])
		if err != nil {
			return err
		}
		return m.Install(cmd.Context(), c)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <component>",
	Short: "Update a component to its latest state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		c, err := manager.Parse(args[0])
		if err != nil {
			return err
		}
		return m.Update(cmd.Context(), c)
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <component>",
	Short: "Uninstall a component (best effort)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		c, err := manager.Parse(args[0])
		if err != nil {
			return err
		}
		return m.Uninstall(cmd.Context(), c)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [component]",
	Short: "Show a detailed status report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Fprint(cmd.OutOrStdout(), m.StatusAll(cmd.Context()))
			return nil
		}

		c, err := manager.Parse(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), m.Status(cmd.Context(), c))
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff [name]",
	Short: "Show differences between deployed dotfiles and their sources",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}

		df, ok := m.Installer(manager.ComponentDotfiles).(*dotfiles.Installer)
		if !ok {
			return errors.New(errors.ErrInternal, "dotfiles installer unavailable")
		}

		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		out, err := df.Diff(name)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show host environment information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := system.New(execx.NewOSRunner())
		env := info.EnvironmentInfo(cmd.Context())

		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(cmd.OutOrStdout(), style.Header("Environment"))
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-16s %s\n", k, env[k])
		}

		issues := info.CheckPrerequisites(cmd.Context())
		if len(issues) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s host is ready for installation\n", style.Glyph(style.StatusOK))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout())
		for _, issue := range issues {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", style.Glyph(style.StatusWarn), issue)
		}
		return nil
	},
}
