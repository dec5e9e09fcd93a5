package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mnemosyne"
	"github.com/agentstation/mnemosyne/pkg/errors"
	"github.com/agentstation/mnemosyne/pkg/logging"
)

const goodreadsExport = `Book Id,Title,Author,Author l-f,Additional Authors,ISBN,ISBN13,My Rating,Average Rating,Publisher,Binding,Number of Pages,Year Published,Original Publication Year,Date Read,Date Added,Bookshelves,Bookshelves with positions,Exclusive Shelf,My Review,Spoiler,Private Notes,Read Count,Owned Copies
3,Kindred,Octavia E. Butler,,,,,0,,Beacon Press,,,,,,,,,,,,,0,
2,Foundation,Isaac Asimov,,,,,4,,Gnome,,,,,,,,,,Psychohistory,,,1,
1,Dune,Frank Herbert,,,,,5,,Ace,,,,,,,,,,,,,2,
`

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	isolate(t)

	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2024-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, app.Config())
	assert.Equal(t, CollectorAuto, app.CollectorMode())
}

// TestApp_Client_Singleton verifies that Client() returns one instance under
// concurrent use.
func TestApp_Client_Singleton(t *testing.T) {
	isolate(t)

	app, err := New("1.0.0", "test", "2024-01-01", "test")
	require.NoError(t, err)

	const goroutines = 50
	var wg sync.WaitGroup
	clients := make([]*mnemosyne.Client, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			c, err := app.Client()
			assert.NoError(t, err)
			clients[idx] = c
		}(i)
	}
	wg.Wait()

	for _, c := range clients {
		assert.Same(t, clients[0], c)
	}
}

// TestApp_WithOptions verifies functional options.
func TestApp_WithOptions(t *testing.T) {
	isolate(t)

	client, err := mnemosyne.New(mnemosyne.WithDataDir(t.TempDir()))
	require.NoError(t, err)
	config := &Config{Collector: CollectorPrompt, RegistryFile: "config.json", Format: "yaml"}

	app, err := New("dev", "", "", "", WithConfig(config), WithLogger(logging.NewNopLogger()), WithClient(client))
	require.NoError(t, err)

	got, err := app.Client()
	require.NoError(t, err)
	assert.Same(t, client, got)
	assert.Equal(t, "yaml", app.OutputFormat())
	assert.Equal(t, CollectorPrompt, app.CollectorMode())
}

type harness struct {
	t       *testing.T
	dataDir string
}

func newHarness(t *testing.T) *harness {
	isolate(t)
	return &harness{t: t, dataDir: t.TempDir()}
}

// run executes one command line against a fresh App and returns its output.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	app, err := New("1.2.3", "abc", "today", "test",
		WithIO(strings.NewReader(stdin), &out),
		WithLogger(logging.NewNopLogger()),
	)
	require.NoError(h.t, err)

	args = append([]string{"--data-dir", h.dataDir, "--collector", "prompt"}, args...)
	err = app.Execute(context.Background(), args)
	return out.String(), err
}

func (h *harness) importBooks() {
	h.t.Helper()
	csv := filepath.Join(h.t.TempDir(), "export.csv")
	require.NoError(h.t, os.WriteFile(csv, []byte(goodreadsExport), 0o644))

	out, err := h.run("", "import", "goodreads", csv, "--library", "books")
	require.NoError(h.t, err)
	assert.Contains(h.t, out, "Imported 3 records into books")
}

func (h *harness) exportJSON(name string) []map[string]any {
	h.t.Helper()
	args := []string{"export", "-o", "json"}
	if name != "" {
		args = append(args, name)
	}
	out, err := h.run("", args...)
	require.NoError(h.t, err)

	var views []map[string]any
	require.NoError(h.t, json.Unmarshal([]byte(out), &views), out)
	return views
}

func TestExecute_ImportAndExport(t *testing.T) {
	h := newHarness(t)
	h.importBooks()

	views := h.exportJSON("books")
	require.Len(t, views, 3)
	assert.Equal(t, "Dune", views[0]["title"])
	assert.Equal(t, "Foundation", views[1]["title"])
	assert.Equal(t, "Kindred", views[2]["title"])
	assert.EqualValues(t, 5, views[0]["rating"])
	assert.NotContains(t, views[2], "rating", "0 means unrated")
	assert.Equal(t, "Psychohistory", views[1]["comments"])

	// first imported library becomes the default
	assert.Len(t, h.exportJSON(""), 3)

	_, err := h.run("", "export", "films")
	assert.True(t, errors.IsNotFound(err))
}

func TestExecute_ImportErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "import", "goodreads", filepath.Join(h.dataDir, "missing.csv"), "--library", "books")
	assert.True(t, errors.IsNotFound(err))

	_, err = h.run("", "import", "goodreads", "x.csv")
	assert.True(t, errors.IsValidationError(err), "missing --library")

	_, err = h.run("", "import", "goodreads", "x.csv", "--library", "books", "--shelf", "wishlist")
	assert.True(t, errors.IsValidationError(err))

	h.importBooks()
	csv := filepath.Join(t.TempDir(), "again.csv")
	require.NoError(t, os.WriteFile(csv, []byte(goodreadsExport), 0o644))
	_, err = h.run("", "import", "goodreads", csv, "--library", "books")
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestExecute_Libraries(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "libraries")
	require.NoError(t, err)
	assert.Contains(t, out, "No libraries registered.")

	h.importBooks()
	csv := filepath.Join(t.TempDir(), "unread.csv")
	require.NoError(t, os.WriteFile(csv, []byte(goodreadsExport), 0o644))
	_, err = h.run("", "import", "goodreads", csv, "--library", "toread", "--shelf", "unread")
	require.NoError(t, err)

	out, err = h.run("", "libraries", "-o", "json")
	require.NoError(t, err)
	var libs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &libs), out)
	require.Len(t, libs, 2)
	assert.Equal(t, "books", libs[0]["name"])
	assert.Equal(t, true, libs[0]["default"])
	assert.Equal(t, false, libs[1]["default"])

	out, err = h.run("", "libraries", "default", "toread")
	require.NoError(t, err)
	assert.Contains(t, out, "toread is now the default library.")
	assert.Len(t, h.exportJSON(""), 1)

	_, err = h.run("", "libraries", "default", "films")
	assert.True(t, errors.IsNotFound(err))
}

func TestExecute_Shell(t *testing.T) {
	h := newHarness(t)
	h.importBooks()

	script := strings.Join([]string{
		"search a herbert",
		"edit 0 r",
		"3",
		"search r 4",
		"quit",
	}, "\n") + "\n"

	out, err := h.run(script, "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "books is now open.")
	assert.Contains(t, out, "Updated [0] Dune by Frank Herbert.")
	assert.Contains(t, out, "Foundation")

	views := h.exportJSON("books")
	assert.EqualValues(t, 3, views[0]["rating"])
}

func TestExecute_RootRunsShell(t *testing.T) {
	h := newHarness(t)
	h.importBooks()

	out, err := h.run("new\nSolaris\nLem\n\n.\n.\n", "--library", "books")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added Solaris by Lem.")

	// end of input commits
	views := h.exportJSON("books")
	require.Len(t, views, 4)
	assert.Equal(t, "Solaris", views[3]["title"])
}

func TestExecute_Search(t *testing.T) {
	h := newHarness(t)
	h.importBooks()

	out, err := h.run("", "search", "a", "ASIMOV", "-o", "json")
	require.NoError(t, err)
	var views []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &views), out)
	require.Len(t, views, 1)
	assert.Equal(t, "Foundation", views[0]["title"])
	assert.EqualValues(t, 1, views[0]["position"])

	out, err = h.run("", "search", "t", "left", "hand", "-o", "table")
	require.NoError(t, err)
	assert.Equal(t, "Not found.\n", out)

	_, err = h.run("", "search", "r", "five")
	assert.True(t, errors.IsValidationError(err))

	_, err = h.run("", "search", "x", "dune")
	assert.True(t, errors.IsValidationError(err))
}

func TestExecute_Review(t *testing.T) {
	h := newHarness(t)
	h.importBooks()

	out, err := h.run("nn\nqq\n", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Foundation")

	// resumes at the saved position
	out, err = h.run("dd\nqq\n", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Foundation by Isaac Asimov.")

	views := h.exportJSON("books")
	require.Len(t, views, 2)
	assert.Equal(t, "Kindred", views[1]["title"])

	out, err = h.run("qq\n", "review", "--restart", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Dune"`)

	// a walk that reaches the end starts over next time
	out, err = h.run("nn\nnn\n", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "End of books.")

	out, err = h.run("qq\n", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.NotContains(t, out, "End of books.")
}

func TestExecute_Version(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mnemosyne 1.2.3")
	assert.NotContains(t, out, "commit:")

	out, err = h.run("", "version", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:     abc")
}

func TestExecute_InvalidFlags(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "--collector", "telepathy", "libraries")
	assert.Error(t, err)

	_, err = h.run("", "export", "books", "-o", "xml")
	assert.Error(t, err)
}
