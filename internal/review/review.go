// Package review walks a library one record at a time so each entry can be
// checked, corrected or removed in turn. The position is kept in a small
// file next to the library so a walk can resume where it stopped.
package review

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/mnemosyne/internal/fsutil"
	"github.com/agentstation/mnemosyne/pkg/constants"
	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/library"
	"github.com/agentstation/mnemosyne/pkg/logging"
	"github.com/agentstation/mnemosyne/pkg/records"
	"github.com/agentstation/mnemosyne/pkg/results"
)

// Instructions accepted at the review prompt besides field codes.
const (
	Next   = "nn"
	Delete = "dd"
	Quit   = "qq"
)

// Prompt is printed before every instruction.
const Prompt = "Review: "

// LineReader supplies instructions.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// FieldCollector asks for a new field value.
type FieldCollector interface {
	CollectField(ctx context.Context, field records.Field, current string) (string, error)
}

// Renderer shows the record under review.
type Renderer interface {
	Record(w io.Writer, index int, entry results.Entry) error
}

// Config configures a Walk.
type Config struct {
	Library   *library.Library
	Input     LineReader
	Collector FieldCollector
	Renderer  Renderer
	Out       io.Writer
	Logger    *zerolog.Logger
	// Start is the first position shown.
	Start int
}

// Walk is one review pass over a library.
type Walk struct {
	lib       *library.Library
	input     LineReader
	collector FieldCollector
	renderer  Renderer
	out       io.Writer
	logger    zerolog.Logger
	pos       int
	finished  bool
}

// New prepares a walk starting at cfg.Start.
func New(cfg Config) (*Walk, error) {
	if cfg.Library == nil {
		return nil, errors.NewConfigError("review", "library is required", nil)
	}
	if cfg.Input == nil || cfg.Collector == nil || cfg.Renderer == nil {
		return nil, errors.NewConfigError("review", "input, collector and renderer are required", nil)
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	base := logging.Default()
	if cfg.Logger != nil {
		base = cfg.Logger
	}
	return &Walk{
		lib:       cfg.Library,
		input:     cfg.Input,
		collector: cfg.Collector,
		renderer:  cfg.Renderer,
		out:       out,
		logger:    base.With().Str("library", cfg.Library.Name()).Logger(),
		pos:       max(cfg.Start, 0),
	}, nil
}

// Position returns the position of the record under review.
func (w *Walk) Position() int { return w.pos }

// Finished reports whether the walk reached the end of the library.
func (w *Walk) Finished() bool { return w.finished }

// Resume returns where the next walk should start. A finished walk starts
// over from the first record.
func (w *Walk) Resume() int {
	if w.finished {
		return 0
	}
	return w.pos
}

// Run shows records and applies instructions until qq, the end of the
// library, or the end of input. The library is committed after every
// instruction; a failed commit stops the walk and is returned.
func (w *Walk) Run(ctx context.Context) error {
	for {
		if w.pos >= w.lib.Len() {
			w.finished = true
			w.printf("End of %s. The next review starts from the first record.\n", w.lib.Name())
			return nil
		}

		rec, err := w.lib.At(w.pos)
		if err != nil {
			return err
		}
		if err := w.renderer.Record(w.out, w.pos, results.Entry{Origin: w.pos, Record: rec}); err != nil {
			return err
		}

		line, err := w.input.ReadLine(ctx, Prompt)
		if err != nil {
			w.printf("\n")
			return nil
		}

		more, err := w.Step(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.printf("Error: %v\n", err)
		}
		if err := w.lib.Commit(); err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Step applies one instruction to the record under review and reports
// whether the walk continues.
func (w *Walk) Step(ctx context.Context, line string) (bool, error) {
	instruction := strings.ToLower(strings.TrimSpace(line))
	switch instruction {
	case "":
		return true, nil
	case Quit:
		return false, nil
	case Next:
		w.pos++
		return true, nil
	case Delete:
		rec, err := w.lib.At(w.pos)
		if err != nil {
			return true, err
		}
		if err := w.lib.DeleteAt(w.pos); err != nil {
			return true, err
		}
		w.logger.Debug().Int("origin", w.pos).Msg("Record deleted in review")
		w.printf("Deleted %s.\n", rec)
		return true, nil
	}

	if len(instruction) != 1 {
		return true, errors.NewValidationError("instruction", line, "expected nn, dd, qq or a field code")
	}
	field, err := records.ParseField(instruction)
	if err != nil {
		return true, errors.NewValidationError("instruction", line, "expected nn, dd, qq or a field code")
	}

	rec, err := w.lib.At(w.pos)
	if err != nil {
		return true, err
	}
	value, err := w.collector.CollectField(ctx, field, rec.Get(field))
	if err != nil {
		return true, err
	}
	updated, err := rec.Apply(records.Values{field: value})
	if err != nil {
		return true, err
	}
	if err := w.lib.ReplaceAt(w.pos, updated); err != nil {
		return true, err
	}
	w.logger.Debug().Int("origin", w.pos).Str("field", field.String()).Msg("Record updated in review")
	return true, nil
}

func (w *Walk) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.out, format, args...)
}

// PositionPath returns the file holding the saved position for a library.
func PositionPath(dataDir, name string) string {
	return filepath.Join(dataDir, name+constants.ReviewExtension)
}

// LoadPosition reads a saved position. A missing file means 0.
func LoadPosition(path string) (int, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.WrapIO("read", path, err)
	}
	pos, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pos < 0 {
		return 0, errors.NewCorruptionError("position", path, "not a non-negative integer", err)
	}
	return pos, nil
}

// SavePosition writes pos to path.
func SavePosition(path string, pos int) error {
	return fsutil.WriteFileAtomic(path, []byte(strconv.Itoa(pos)+"\n"), constants.FilePermissions)
}
