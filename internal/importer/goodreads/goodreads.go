// Package goodreads converts a Goodreads library export (CSV) into records.
//
// The export lists books newest first; records are returned oldest first so
// a new library reads in the order books were added.
package goodreads

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/logging"
	"github.com/agentstation/mnemosyne/pkg/records"
)

// Shelf selects which books to import.
type Shelf int

// Shelf values.
const (
	ShelfUnread Shelf = iota
	ShelfRead
	ShelfAll
)

// String returns the shelf name.
func (s Shelf) String() string {
	switch s {
	case ShelfUnread:
		return "unread"
	case ShelfRead:
		return "read"
	case ShelfAll:
		return "all"
	}
	return "unknown"
}

// ParseShelf accepts read, unread, all (or both), and 0, 1, 2.
func ParseShelf(s string) (Shelf, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unread", "0":
		return ShelfUnread, nil
	case "read", "1":
		return ShelfRead, nil
	case "all", "both", "2":
		return ShelfAll, nil
	}
	return 0, errors.NewValidationError("shelf", s, "must be read, unread or all")
}

func (s Shelf) includes(readCount int) bool {
	switch s {
	case ShelfRead:
		return readCount > 0
	case ShelfUnread:
		return readCount == 0
	}
	return true
}

// Export column headers and their positions in current exports.
var columns = []struct {
	name  string
	index int
}{
	{colTitle, 1},
	{colAuthor, 2},
	{colRating, 7},
	{colPublisher, 9},
	{colReview, 19},
	{colReadCount, 22},
}

const (
	colTitle     = "Title"
	colAuthor    = "Author"
	colRating    = "My Rating"
	colPublisher = "Publisher"
	colReview    = "My Review"
	colReadCount = "Read Count"
)

var breaks = strings.NewReplacer("<br/>", "\n", "<br />", "\n", "<br>", "\n")

// Skip records a row that could not be imported.
type Skip struct {
	Line   int
	Reason string
}

// Result is the outcome of an import.
type Result struct {
	Records  []*records.Record
	Skipped  []Skip
	Filtered int
}

// ReadFile imports the export at path.
func ReadFile(path string, shelf Shelf) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("export file", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, shelf)
}

// Read imports an export from r. The header row locates the columns; a
// header without the expected names falls back to the standard positions.
// Rows that do not make a valid record are skipped and reported.
func Read(r io.Reader, shelf Shelf) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewCorruptionError("csv", "", "missing header row", nil)
	}
	if err != nil {
		return nil, errors.WrapCorruption("csv", "", err)
	}
	index := locate(header)

	var rows [][]string
	var lines []int
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapCorruption("csv", "", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}

	res := &Result{}
	for i := len(rows) - 1; i >= 0; i-- {
		rec, keep, err := convert(rows[i], index, shelf)
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Line: lines[i], Reason: err.Error()})
			logging.Warn().
				Int("line", lines[i]).
				Err(err).
				Msg("Skipping Goodreads row")
			continue
		}
		if !keep {
			res.Filtered++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	logging.Debug().
		Int("imported", len(res.Records)).
		Int("skipped", len(res.Skipped)).
		Int("filtered", res.Filtered).
		Str("shelf", shelf.String()).
		Msg("Read Goodreads export")
	return res, nil
}

func locate(header []string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	index := make(map[string]int, len(columns))
	for _, c := range columns {
		if i, ok := byName[c.name]; ok {
			index[c.name] = i
		} else {
			index[c.name] = c.index
		}
	}
	return index
}

func convert(row []string, index map[string]int, shelf Shelf) (*records.Record, bool, error) {
	get := func(col string) (string, error) {
		i := index[col]
		if i >= len(row) {
			return "", fmt.Errorf("missing %s column", col)
		}
		return strings.TrimSpace(row[i]), nil
	}

	countText, err := get(colReadCount)
	if err != nil {
		return nil, false, err
	}
	readCount := 0
	if countText != "" {
		if readCount, err = strconv.Atoi(countText); err != nil {
			return nil, false, fmt.Errorf("read count %q is not a number", countText)
		}
	}
	if !shelf.includes(readCount) {
		return nil, false, nil
	}

	values := records.Values{}
	for col, field := range map[string]records.Field{
		colTitle:     records.Title,
		colAuthor:    records.Attribution,
		colRating:    records.Rating,
		colPublisher: records.EditionNotes,
		colReview:    records.Comments,
	} {
		v, err := get(col)
		if err != nil {
			return nil, false, err
		}
		values[field] = v
	}

	// Goodreads writes 0 for books the reader has not rated.
	if values[records.Rating] == "0" {
		values[records.Rating] = ""
	}
	values[records.Comments] = breaks.Replace(values[records.Comments])

	rec, err := records.New(values)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}
