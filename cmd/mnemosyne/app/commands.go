package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/mnemosyne/cmd/mnemosyne/cmd/export"
	"github.com/agentstation/mnemosyne/cmd/mnemosyne/cmd/imports"
	"github.com/agentstation/mnemosyne/cmd/mnemosyne/cmd/libraries"
	"github.com/agentstation/mnemosyne/cmd/mnemosyne/cmd/review"
	"github.com/agentstation/mnemosyne/cmd/mnemosyne/cmd/search"
	"github.com/agentstation/mnemosyne/cmd/mnemosyne/cmd/shell"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(shell.NewCommand(a))
	rootCmd.AddCommand(search.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))
	rootCmd.AddCommand(review.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(libraries.NewCommand(a))
	rootCmd.AddCommand(imports.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("mnemosyne %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:     %s\n", a.commit)
				cmd.Printf("  built:      %s\n", a.date)
				cmd.Printf("  built by:   %s\n", a.builtBy)
				cmd.Printf("  go version: %s\n", runtime.Version())
				cmd.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
