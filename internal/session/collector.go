package session

import (
	"context"
	"io"

	"github.com/agentstation/mnemosyne/internal/registry"
	"github.com/agentstation/mnemosyne/pkg/records"
	"github.com/agentstation/mnemosyne/pkg/results"
)

// Collector gathers field values from the user.
//
// Implementations return io.EOF when input ends and the context error when
// ctx is canceled. A collector never validates; the session does.
type Collector interface {
	// CollectRecord asks for every field, pre-filled with current.
	CollectRecord(ctx context.Context, title string, current records.Values) (records.Values, error)
	// CollectField asks for one field, pre-filled with current.
	CollectField(ctx context.Context, field records.Field, current string) (string, error)
	// CollectLine asks for a single line of free text.
	CollectLine(ctx context.Context, prompt string) (string, error)
}

// LineReader supplies command lines.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// Renderer writes session output.
type Renderer interface {
	Results(w io.Writer, set *results.Set) error
	Record(w io.Writer, index int, entry results.Entry) error
	Libraries(w io.Writer, entries []registry.Entry, active string) error
}
