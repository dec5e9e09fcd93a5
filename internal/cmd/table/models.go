// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/mnemosyne/internal/registry"
	"github.com/agentstation/mnemosyne/pkg/constants"
	"github.com/agentstation/mnemosyne/pkg/records"
	"github.com/agentstation/mnemosyne/pkg/results"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ResultsToTableData converts a result set to table format. Wide adds the
// free-text fields.
func ResultsToTableData(set *results.Set, wide bool) Data {
	headers := []string{"#", "TITLE", "ATTRIBUTION", "RATING"}
	align := []Align{AlignRight, AlignDefault, AlignDefault, AlignCenter}
	if wide {
		headers = append(headers, "EDITION NOTES", "COMMENTS")
		align = append(align, AlignDefault, AlignDefault)
	}

	entries := set.Entries()
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		row := []string{
			strconv.Itoa(i),
			Truncate(e.Record.Title(), constants.MaxCellWidth),
			Truncate(e.Record.Attribution(), constants.MaxCellWidth),
			FormatRating(e.Record),
		}
		if wide {
			row = append(row,
				Truncate(e.Record.EditionNotes(), constants.MaxCellWidth),
				Truncate(e.Record.Comments(), constants.MaxCellWidth),
			)
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: align,
	}
}

// RecordToTableData converts one record to a field/value table.
func RecordToTableData(rec *records.Record) Data {
	rows := make([][]string, 0, len(records.Fields))
	for _, f := range records.Fields {
		value := rec.Get(f)
		if value == "" {
			value = "-"
		}
		rows = append(rows, []string{f.String(), value})
	}
	return Data{
		Headers: []string{"FIELD", "VALUE"},
		Rows:    rows,
	}
}

// LibrariesToTableData converts registry entries to table format.
func LibrariesToTableData(entries []registry.Entry, active string) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name,
			mark(e.IsDefault),
			mark(e.Name == active),
		})
	}
	return Data{
		Headers:         []string{"NAME", "DEFAULT", "OPEN"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignDefault, AlignCenter, AlignCenter},
	}
}

func mark(b bool) string {
	if b {
		return "✓"
	}
	return ""
}

// FormatRating formats a record rating, "-" when unrated.
func FormatRating(rec *records.Record) string {
	if n, ok := rec.Rating(); ok {
		return strconv.Itoa(n)
	}
	return "-"
}

// Truncate shortens s to at most n runes for a single table cell. Line
// breaks are folded into spaces.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "-"
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
