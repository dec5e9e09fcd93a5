// Package shell provides the interactive shell command.
package shell

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/agentstation/mnemosyne/internal/appcontext"
	"github.com/agentstation/mnemosyne/internal/cmd/output"
	"github.com/agentstation/mnemosyne/internal/form"
	"github.com/agentstation/mnemosyne/internal/prompt"
	"github.com/agentstation/mnemosyne/internal/session"
	"github.com/agentstation/mnemosyne/pkg/errors"
)

// Options configures one shell run.
type Options struct {
	// Library is opened instead of the registry default.
	Library string
	In      io.Reader
	Out     io.Writer
}

// NewCommand creates the shell command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var library string

	cmd := &cobra.Command{
		Use:     "shell",
		GroupID: "core",
		Short:   "Start the interactive shell",
		Long: `Shell opens a library and reads commands until quit or end of input.

Type "help" at the prompt for the command list. Changes are kept in memory
until "commit"; quitting, end of input and interrupts commit before exit.

When a field is prompted, a blank answer keeps the current value and "-"
clears it. Edition Notes and Comments take several lines ending with a line
holding only ".". Enter "\-" or "\." to store a literal "-" or ".".`,
		Example: `  mnemosyne shell                 # open the default library
  mnemosyne shell --library films # open another registered library
  mnemosyne shell --collector prompt < script.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), app, Options{
				Library: library,
				In:      cmd.InOrStdin(),
				Out:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&library, "library", "l", "", "library to open instead of the default")

	return cmd
}

// Run starts a session and blocks until it ends. The returned error is
// a setup failure or the failure of the final commit.
func Run(ctx context.Context, app appcontext.Interface, opts Options) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	lines := prompt.New(opts.In, opts.Out)
	collector, err := newCollector(app.CollectorMode(), lines, opts.In, opts.Out)
	if err != nil {
		return err
	}

	s, err := session.New(session.Config{
		DataDir:      client.DataDir(),
		RegistryFile: client.RegistryFile(),
		Library:      opts.Library,
		Input:        lines,
		Collector:    collector,
		Renderer:     output.NewRenderer(format),
		Out:          opts.Out,
		Logger:       app.Logger(),
	})
	if err != nil {
		return err
	}

	s.Start(ctx)
	return s.Run(ctx)
}

// newCollector picks the field collector. auto uses the form only when
// both ends are a terminal.
func newCollector(mode string, lines *prompt.Prompter, in io.Reader, out io.Writer) (session.Collector, error) {
	switch mode {
	case "", "auto":
		if terminal(in) && terminal(out) {
			return form.New(lines, nil, nil), nil
		}
		return lines, nil
	case "prompt":
		return lines, nil
	case "form":
		return form.New(lines, in, out), nil
	default:
		return nil, errors.NewValidationError("collector", mode, "must be one of: auto, prompt, form")
	}
}

func terminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
