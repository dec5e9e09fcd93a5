package goodreads_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mnemosyne/internal/importer/goodreads"
	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/records"
)

const header = "Book Id,Title,Author,Author l-f,Additional Authors,ISBN,ISBN13,My Rating,Average Rating,Publisher,Binding,Number of Pages,Year Published,Original Publication Year,Date Read,Date Added,Bookshelves,Bookshelves with positions,Exclusive Shelf,My Review,Spoiler,Private Notes,Read Count,Owned Copies\n"

// row builds an export line with the columns the importer reads.
func row(title, author, rating, publisher, review, readCount string) string {
	cols := make([]string, 24)
	cols[0] = "1"
	cols[1] = title
	cols[2] = author
	cols[7] = rating
	cols[9] = publisher
	cols[19] = review
	cols[22] = readCount
	for i, c := range cols {
		if strings.ContainsAny(c, ",\"\n") {
			cols[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
	}
	return strings.Join(cols, ",") + "\n"
}

func export() string {
	return header +
		row("Kindred", "Octavia E. Butler", "0", "Beacon Press", "", "0") +
		row("Foundation", "Isaac Asimov", "4", "Gnome", "Psychohistory,<br/>and more", "1") +
		row("Dune", "Frank Herbert", "5", "Ace", `The "spice"`, "2")
}

func titles(res *goodreads.Result) []string {
	var out []string
	for _, r := range res.Records {
		out = append(out, r.Title())
	}
	return out
}

func TestRead(t *testing.T) {
	tests := []struct {
		shelf    goodreads.Shelf
		want     []string
		filtered int
	}{
		{goodreads.ShelfAll, []string{"Dune", "Foundation", "Kindred"}, 0},
		{goodreads.ShelfRead, []string{"Dune", "Foundation"}, 1},
		{goodreads.ShelfUnread, []string{"Kindred"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.shelf.String(), func(t *testing.T) {
			res, err := goodreads.Read(strings.NewReader(export()), tt.shelf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(res), "oldest first")
			assert.Equal(t, tt.filtered, res.Filtered)
			assert.Empty(t, res.Skipped)
		})
	}
}

func TestFieldMapping(t *testing.T) {
	res, err := goodreads.Read(strings.NewReader(export()), goodreads.ShelfAll)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	dune := res.Records[0]
	assert.Equal(t, "Frank Herbert", dune.Attribution())
	assert.Equal(t, "5", dune.Get(records.Rating))
	assert.Equal(t, "Ace", dune.EditionNotes())
	assert.Equal(t, `The "spice"`, dune.Comments())

	foundation := res.Records[1]
	assert.Equal(t, "Psychohistory,\nand more", foundation.Comments())

	kindred := res.Records[2]
	_, rated := kindred.Rating()
	assert.False(t, rated, "0 means not rated")
}

func TestReadSkipsInvalidRows(t *testing.T) {
	input := header +
		row("", "Nobody", "3", "", "", "1") +
		row("Solaris", "Stanisław Lem", "x", "", "", "1") +
		row("Ubik", "Philip K. Dick", "4", "", "", "many") +
		"1,Short row\n" +
		row("Kindred", "Octavia E. Butler", "5", "", "", "1")

	res, err := goodreads.Read(strings.NewReader(input), goodreads.ShelfAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kindred"}, titles(res))
	require.Len(t, res.Skipped, 4)
	assert.Equal(t, 5, res.Skipped[0].Line)
	assert.Equal(t, 2, res.Skipped[3].Line)
}

func TestReadHeaderOrder(t *testing.T) {
	input := "Read Count,Author,Title,My Rating,Publisher,My Review\n" +
		"1,Ursula K. Le Guin,The Dispossessed,5,Harper,\n"

	res, err := goodreads.Read(strings.NewReader(input), goodreads.ShelfRead)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "The Dispossessed by Ursula K. Le Guin", res.Records[0].String())
}

func TestReadEmpty(t *testing.T) {
	_, err := goodreads.Read(strings.NewReader(""), goodreads.ShelfAll)
	assert.True(t, errors.IsCorruption(err))

	res, err := goodreads.Read(strings.NewReader(header), goodreads.ShelfAll)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goodreads_library_export.csv")
	require.NoError(t, os.WriteFile(path, []byte(export()), 0o644))

	res, err := goodreads.ReadFile(path, goodreads.ShelfUnread)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kindred"}, titles(res))

	_, err = goodreads.ReadFile(filepath.Join(t.TempDir(), "missing.csv"), goodreads.ShelfAll)
	assert.True(t, errors.IsNotFound(err))
}

func TestParseShelf(t *testing.T) {
	for in, want := range map[string]goodreads.Shelf{
		"read": goodreads.ShelfRead, "1": goodreads.ShelfRead,
		"UNREAD": goodreads.ShelfUnread, "0": goodreads.ShelfUnread,
		"all": goodreads.ShelfAll, "both": goodreads.ShelfAll, "2": goodreads.ShelfAll,
	} {
		got, err := goodreads.ParseShelf(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := goodreads.ParseShelf("wishlist")
	assert.True(t, errors.IsValidationError(err))
}
