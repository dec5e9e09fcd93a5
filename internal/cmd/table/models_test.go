package table_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mnemosyne/internal/cmd/table"
	"github.com/agentstation/mnemosyne/internal/registry"
	"github.com/agentstation/mnemosyne/pkg/library"
	"github.com/agentstation/mnemosyne/pkg/records"
	"github.com/agentstation/mnemosyne/pkg/results"
)

func TestResultsToTableData(t *testing.T) {
	dune, err := records.New(records.Values{
		records.Title:       "Dune",
		records.Attribution: "Herbert",
		records.Rating:      "5",
		records.Comments:    "line one\nline two",
	})
	require.NoError(t, err)
	solaris, err := records.New(records.Values{records.Title: "Solaris", records.Attribution: "Lem"})
	require.NoError(t, err)

	lib, err := library.Create(library.Path(t.TempDir(), "books"), "books", dune, solaris)
	require.NoError(t, err)
	defer lib.Close()

	data := table.ResultsToTableData(results.All(lib), false)
	assert.Equal(t, []string{"#", "TITLE", "ATTRIBUTION", "RATING"}, data.Headers)
	assert.Equal(t, [][]string{
		{"0", "Dune", "Herbert", "5"},
		{"1", "Solaris", "Lem", "-"},
	}, data.Rows)
	assert.Len(t, data.ColumnAlignment, len(data.Headers))

	wide := table.ResultsToTableData(results.All(lib), true)
	assert.Len(t, wide.Headers, 6)
	assert.Equal(t, "line one line two", wide.Rows[0][5])
	assert.Equal(t, "-", wide.Rows[1][4])
}

func TestRecordToTableData(t *testing.T) {
	rec, err := records.New(records.Values{
		records.Title:       "Dune",
		records.Attribution: "Herbert",
		records.Comments:    "line one\nline two",
	})
	require.NoError(t, err)

	data := table.RecordToTableData(rec)
	require.Len(t, data.Rows, len(records.Fields))
	assert.Equal(t, []string{"Rating", "-"}, data.Rows[2])
	assert.Equal(t, []string{"Comments", "line one\nline two"}, data.Rows[4])
}

func TestLibrariesToTableData(t *testing.T) {
	data := table.LibrariesToTableData([]registry.Entry{
		{Name: "books", IsDefault: true},
		{Name: "films"},
	}, "films")
	assert.Equal(t, [][]string{
		{"books", "✓", ""},
		{"films", "", "✓"},
	}, data.Rows)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "-", table.Truncate("  \n ", 10))
	assert.Equal(t, "short", table.Truncate("short", 10))
	assert.Equal(t, "a b", table.Truncate("a\n\nb", 10))

	long := strings.Repeat("é", 20)
	got := table.Truncate(long, 10)
	assert.Equal(t, strings.Repeat("é", 7)+"...", got)
}
