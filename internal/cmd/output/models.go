package output

import (
	"fmt"
	"io"

	"github.com/agentstation/mnemosyne/internal/cmd/table"
	"github.com/agentstation/mnemosyne/internal/registry"
	"github.com/agentstation/mnemosyne/pkg/library"
	"github.com/agentstation/mnemosyne/pkg/records"
	"github.com/agentstation/mnemosyne/pkg/results"
)

// RecordView is the JSON and YAML shape of a record.
type RecordView struct {
	Index        *int   `json:"index,omitempty" yaml:"index,omitempty"`
	Position     int    `json:"position" yaml:"position"`
	Title        string `json:"title" yaml:"title"`
	Attribution  string `json:"attribution" yaml:"attribution"`
	Rating       *int   `json:"rating,omitempty" yaml:"rating,omitempty"`
	EditionNotes string `json:"edition_notes,omitempty" yaml:"edition_notes,omitempty"`
	Comments     string `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// LibraryView is the JSON and YAML shape of a registry entry.
type LibraryView struct {
	Name    string `json:"name" yaml:"name"`
	Default bool   `json:"default" yaml:"default"`
	Open    bool   `json:"open" yaml:"open"`
}

// NewRecordView converts a record at a library position.
func NewRecordView(pos int, rec *records.Record) RecordView {
	v := RecordView{
		Position:     pos,
		Title:        rec.Title(),
		Attribution:  rec.Attribution(),
		EditionNotes: rec.EditionNotes(),
		Comments:     rec.Comments(),
	}
	if n, ok := rec.Rating(); ok {
		v.Rating = &n
	}
	return v
}

// Renderer writes session and command output in one format.
type Renderer struct {
	format    Format
	formatter Formatter
}

// NewRenderer returns a Renderer for format.
func NewRenderer(format Format) *Renderer {
	if format == "" {
		format = FormatTable
	}
	return &Renderer{format: format, formatter: NewFormatter(format)}
}

func (r *Renderer) tabular() bool {
	return r.format == FormatTable || r.format == FormatWide
}

// Results writes a result set.
func (r *Renderer) Results(w io.Writer, set *results.Set) error {
	if r.tabular() {
		return r.formatter.Format(w, table.ResultsToTableData(set, r.format == FormatWide))
	}

	entries := set.Entries()
	views := make([]RecordView, 0, len(entries))
	for i, e := range entries {
		v := NewRecordView(e.Origin, e.Record)
		v.Index = &i
		views = append(views, v)
	}
	return r.formatter.Format(w, views)
}

// Record writes every field of one result.
func (r *Renderer) Record(w io.Writer, index int, entry results.Entry) error {
	if r.tabular() {
		if _, err := fmt.Fprintf(w, "[%d] %s\n", index, entry.Record); err != nil {
			return err
		}
		return r.formatter.Format(w, table.RecordToTableData(entry.Record))
	}

	v := NewRecordView(entry.Origin, entry.Record)
	v.Index = &index
	return r.formatter.Format(w, v)
}

// Libraries writes registry entries, marking the open library.
func (r *Renderer) Libraries(w io.Writer, entries []registry.Entry, active string) error {
	if r.tabular() {
		return r.formatter.Format(w, table.LibrariesToTableData(entries, active))
	}

	views := make([]LibraryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, LibraryView{Name: e.Name, Default: e.IsDefault, Open: e.Name == active})
	}
	return r.formatter.Format(w, views)
}

// Library writes every record of lib in library order.
func (r *Renderer) Library(w io.Writer, lib *library.Library) error {
	return r.Results(w, results.All(lib))
}
