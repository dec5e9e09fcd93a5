// Package search provides the one-shot search command.
package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/mnemosyne/internal/appcontext"
	"github.com/agentstation/mnemosyne/internal/cmd/output"
	"github.com/agentstation/mnemosyne/pkg/library"
	"github.com/agentstation/mnemosyne/pkg/records"
	"github.com/agentstation/mnemosyne/pkg/results"
)

// NewCommand creates the search command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:     "search <field> <terms...>",
		GroupID: "core",
		Short:   "Search a library without starting the shell",
		Long: `Search prints the records whose field contains the terms, ignoring case.

Fields are given by code or name: t (Title), a (Attribution), r (Rating),
n (Edition Notes), c (Comments). Rating matches whole numbers exactly.`,
		Example: `  mnemosyne search a asimov
  mnemosyne search t "left hand" --library books -o json
  mnemosyne search r 5`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := records.ParseField(args[0])
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			var lib *library.Library
			if name != "" {
				lib, err = client.Open(name)
			} else {
				lib, err = client.OpenDefault()
			}
			if err != nil {
				return err
			}
			defer func() { _ = lib.Close() }()

			set, err := results.Search(lib, field, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			app.Logger().Debug().
				Str("library", lib.Name()).
				Stringer("query", set.Query()).
				Int("matches", set.Len()).
				Msg("Search complete")

			if set.Len() == 0 && format != output.FormatJSON && format != output.FormatYAML {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not found.")
				return err
			}
			return output.NewRenderer(format).Results(cmd.OutOrStdout(), set)
		},
	}

	cmd.Flags().StringVarP(&name, "library", "l", "", "library to search instead of the default")

	return cmd
}
