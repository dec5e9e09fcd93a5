package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/mnemosyne/cmd/mnemosyne/cmd/shell"
)

// Execute runs the mnemosyne CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
// Without a subcommand the root command starts the interactive shell.
func (a *App) createRootCommand() *cobra.Command {
	var library string

	rootCmd := &cobra.Command{
		Use:     "mnemosyne",
		Short:   "Personal catalog manager",
		Version: a.version,
		Long: `Mnemosyne keeps personal catalogs of books, films and other media.

Each catalog is a library file of records with a title, an attribution,
an optional rating, edition notes and comments. Running mnemosyne without
a subcommand opens the interactive shell on the default library.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return shell.Run(cmd.Context(), a, shell.Options{
				Library: library,
				In:      cmd.InOrStdin(),
				Out:     cmd.OutOrStdout(),
			})
		},
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	rootCmd.Flags().StringVarP(&library, "library", "l", "", "library to open instead of the default")

	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.mnemosyne.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=error)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml, wide")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the registry and library files")
	rootCmd.PersistentFlags().String("collector", "", "field entry in the shell: auto, prompt, form")

	rootCmd.SetVersionTemplate("mnemosyne {{.Version}}\n")

	if a.in != nil {
		rootCmd.SetIn(a.in)
	}
	if a.out != nil {
		rootCmd.SetOut(a.out)
		rootCmd.SetErr(a.out)
	}

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	configFile := mustGetString(cmd, "config")
	dataDir := mustGetString(cmd, "data-dir")
	if configFile != "" {
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	err := a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
		dataDir,
		mustGetString(cmd, "collector"),
	)
	if err != nil {
		return err
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	if configFile != "" || dataDir != "" {
		a.mu.Lock()
		a.client = nil
		a.mu.Unlock()
	}

	a.logger.Debug().
		Str("config_file", a.config.ConfigFile).
		Str("data_dir", a.config.DataDir).
		Str("collector", a.config.Collector).
		Msg("Configuration loaded")
	return nil
}

// ExitOnError prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
