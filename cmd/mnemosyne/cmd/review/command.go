// Package review provides the review command.
package review

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mnemosyne/internal/appcontext"
	"github.com/agentstation/mnemosyne/internal/cmd/output"
	"github.com/agentstation/mnemosyne/internal/prompt"
	"github.com/agentstation/mnemosyne/internal/review"
	"github.com/agentstation/mnemosyne/pkg/library"
)

// NewCommand creates the review command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		name    string
		restart bool
	)

	cmd := &cobra.Command{
		Use:     "review",
		GroupID: "core",
		Short:   "Walk a library one record at a time",
		Long: `Review shows each record in turn and waits for an instruction:

  nn           next record
  dd           delete this record
  t a r n c    edit Title, Attribution, Rating, Edition Notes or Comments
  qq           stop

Every change is saved immediately. The position is remembered, so the next
review continues where this one stopped.`,
		Example: `  mnemosyne review                  # continue reviewing the default library
  mnemosyne review --library films
  mnemosyne review --restart        # start again from the first record`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			posPath := review.PositionPath(client.DataDir(), lib.Name())
			start := 0
			if !restart {
				if start, err = review.LoadPosition(posPath); err != nil {
					return err
				}
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			lines := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
			walk, err := review.New(review.Config{
				Library:   lib,
				Input:     lines,
				Collector: lines,
				Renderer:  output.NewRenderer(format),
				Out:       cmd.OutOrStdout(),
				Logger:    app.Logger(),
				Start:     start,
			})
			if err != nil {
				return err
			}

			runErr := walk.Run(cmd.Context())
			if err := review.SavePosition(posPath, walk.Resume()); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&name, "library", "l", "", "library to review instead of the default")
	cmd.Flags().BoolVar(&restart, "restart", false, "start from the first record")

	return cmd
}
