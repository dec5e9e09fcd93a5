// Package imports provides commands that create libraries from other
// applications' exports.
package imports

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/mnemosyne/internal/appcontext"
	"github.com/agentstation/mnemosyne/internal/importer/goodreads"
	"github.com/agentstation/mnemosyne/pkg/errors"
)

// NewCommand creates the import command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import [source]",
		GroupID: "management",
		Short:   "Create a library from another application's export",
		Long: `Import reads an export file and writes its entries to a new library.

Available sources:
  goodreads   - Goodreads library export (CSV)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown source: %s", args[0])
		},
	}

	cmd.AddCommand(newGoodreadsCommand(app))

	return cmd
}

func newGoodreadsCommand(app appcontext.Interface) *cobra.Command {
	var (
		name        string
		shelf       string
		makeDefault bool
	)

	cmd := &cobra.Command{
		Use:   "goodreads <export.csv>",
		Short: "Import a Goodreads library export",
		Long: `Goodreads imports the CSV produced by Goodreads' "Export Library".

Rows are added oldest first. Publisher becomes Edition Notes and the review
becomes Comments; a rating of 0 means unrated. Rows without a title or
author are skipped and reported.`,
		Example: `  mnemosyne import goodreads goodreads_library_export.csv --library books
  mnemosyne import goodreads export.csv --library toread --shelf unread`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.NewValidationError("library", name, "--library is required")
			}
			sh, err := goodreads.ParseShelf(shelf)
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}

			result, err := goodreads.ReadFile(args[0], sh)
			if err != nil {
				return err
			}

			lib, err := client.CreateLibrary(name, result.Records, makeDefault)
			if err != nil {
				return err
			}
			defer func() { _ = lib.Close() }()

			out := cmd.OutOrStdout()
			for _, skip := range result.Skipped {
				_, _ = fmt.Fprintf(out, "Skipped line %d: %s\n", skip.Line, skip.Reason)
			}
			_, err = fmt.Fprintf(out, "Imported %d records into %s (%d skipped, %d not on the %s shelf).\n",
				lib.Len(), lib.Name(), len(result.Skipped), result.Filtered, sh)
			return err
		},
	}

	cmd.Flags().StringVarP(&name, "library", "l", "", "name of the library to create")
	cmd.Flags().StringVar(&shelf, "shelf", "all", "rows to import: read, unread, all")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "make the new library the default")

	return cmd
}
