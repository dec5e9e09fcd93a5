package form

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/records"
)

// LineCollector reads single lines of free text.
type LineCollector interface {
	CollectLine(ctx context.Context, prompt string) (string, error)
}

// Collector shows a form for record fields and defers single free-text
// lines to a line collector.
type Collector struct {
	lines LineCollector
	in    io.Reader
	out   io.Writer
}

// New returns a form Collector. in and out default to the terminal when nil.
func New(lines LineCollector, in io.Reader, out io.Writer) *Collector {
	return &Collector{lines: lines, in: in, out: out}
}

// CollectRecord shows a form with every field.
func (c *Collector) CollectRecord(ctx context.Context, title string, current records.Values) (records.Values, error) {
	return c.run(ctx, NewModel(title, records.Fields, current))
}

// CollectField shows a form with a single field.
func (c *Collector) CollectField(ctx context.Context, field records.Field, current string) (string, error) {
	values, err := c.run(ctx, NewModel("Edit "+field.String(), []records.Field{field}, records.Values{field: current}))
	if err != nil {
		return "", err
	}
	return values[field], nil
}

// CollectLine reads a line through the line collector.
func (c *Collector) CollectLine(ctx context.Context, prompt string) (string, error) {
	return c.lines.CollectLine(ctx, prompt)
}

func (c *Collector) run(ctx context.Context, m Model) (records.Values, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.in != nil {
		opts = append(opts, tea.WithInput(c.in))
	}
	if c.out != nil {
		opts = append(opts, tea.WithOutput(c.out))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.WrapIO("read", "terminal", err)
	}

	fm, ok := final.(Model)
	if !ok || !fm.Submitted() {
		return nil, errors.ErrCanceled
	}
	return fm.Values(), nil
}
