// Package libraries provides commands for the library registry.
package libraries

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/mnemosyne/internal/appcontext"
	"github.com/agentstation/mnemosyne/internal/cmd/output"
	"github.com/agentstation/mnemosyne/internal/registry"
)

// NewCommand creates the libraries command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "libraries",
		Aliases: []string{"libs"},
		GroupID: "management",
		Short:   "List registered libraries",
		Long: `Libraries lists the libraries in the registry of the data directory
and marks the one the shell opens by default.`,
		Example: `  mnemosyne libraries             # list libraries
  mnemosyne libraries -o json     # list as JSON
  mnemosyne libraries default films`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd, app)
		},
	}

	cmd.AddCommand(newDefaultCommand(app))

	return cmd
}

func list(cmd *cobra.Command, app appcontext.Interface) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	infos, err := client.Libraries()
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No libraries registered.")
		return err
	}

	entries := make([]registry.Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, registry.Entry{Name: info.Name, IsDefault: info.Default})
	}

	format := output.DetectFormat(app.OutputFormat())
	return output.NewRenderer(format).Libraries(cmd.OutOrStdout(), entries, "")
}

func newDefaultCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "default <name>",
		Short: "Make a library the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if err := client.SetDefault(args[0]); err != nil {
				return err
			}
			app.Logger().Debug().Str("library", args[0]).Msg("Default library changed")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is now the default library.\n", args[0])
			return err
		},
	}
}
