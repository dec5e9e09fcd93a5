// Package export provides the export command.
package export

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mnemosyne/internal/appcontext"
	"github.com/agentstation/mnemosyne/internal/cmd/output"
	"github.com/agentstation/mnemosyne/pkg/library"
)

// NewCommand creates the export command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "export [name]",
		GroupID: "core",
		Short:   "Print every record of a library",
		Long: `Export prints the records of a library in library order.

Without a name the default library is exported. Use --format json or yaml
for machine-readable output; tables are used on a terminal.`,
		Example: `  mnemosyne export                # default library
  mnemosyne export films -o yaml  # another library as YAML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			var lib *library.Library
			if len(args) == 1 {
				lib, err = client.Open(args[0])
			} else {
				lib, err = client.OpenDefault()
			}
			if err != nil {
				return err
			}
			defer func() { _ = lib.Close() }()

			app.Logger().Debug().
				Str("library", lib.Name()).
				Int("records", lib.Len()).
				Msg("Exporting library")

			format := output.DetectFormat(app.OutputFormat())
			if _, err := output.ParseFormat(string(format)); err != nil {
				return err
			}
			return output.NewRenderer(format).Library(cmd.OutOrStdout(), lib)
		},
	}
}
