package main

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/example/devsetup/pkg/style"
)

//go:embed docs/usage.md
var usageDoc string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the devsetup usage guide",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !style.IsTerminal() {
			fmt.Fprint(cmd.OutOrStdout(), usageDoc)
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			fmt.Fprint(cmd.OutOrStdout(), usageDoc)
			return nil
		}

		out, err := renderer.Render(usageDoc)
		if err != nil {
			fmt.Fprint(cmd.OutOrStdout(), usageDoc)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
