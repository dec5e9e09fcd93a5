package form_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mnemosyne/internal/form"
	"github.com/agentstation/mnemosyne/pkg/records"
)

func send(t *testing.T, m form.Model, msgs ...tea.Msg) (form.Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(form.Model)
		require.True(t, ok)
	}
	return m, cmd
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPrefilledValues(t *testing.T) {
	current := records.Values{
		records.Title:        "Dune",
		records.Attribution:  "Herbert",
		records.Rating:       "5",
		records.EditionNotes: "Ace\n1990",
		records.Comments:     "",
	}
	m := form.NewModel("Edit", records.Fields, current)
	assert.Equal(t, current, m.Values())
	assert.Contains(t, m.View(), "Edition Notes")
	assert.Contains(t, m.View(), "Edit")
}

func TestTypingAndSubmit(t *testing.T) {
	m := form.NewModel("New record", records.Fields, records.Values{})

	m, _ = send(t, m,
		runes("Kindred"), key(tea.KeyEnter),
		runes("Butler"), key(tea.KeyTab),
		runes("5"),
	)
	m, cmd := send(t, m, key(tea.KeyCtrlS))

	assert.True(t, isQuit(cmd))
	assert.True(t, m.Submitted())
	assert.False(t, m.Canceled())

	got := m.Values()
	assert.Equal(t, "Kindred", got[records.Title])
	assert.Equal(t, "Butler", got[records.Attribution])
	assert.Equal(t, "5", got[records.Rating])
	assert.Empty(t, got[records.Comments])
	assert.Empty(t, m.View())
}

func TestEnterOnLastLineSubmits(t *testing.T) {
	m := form.NewModel("Edit Rating", []records.Field{records.Rating}, records.Values{records.Rating: "4"})

	m, cmd := send(t, m, key(tea.KeyBackspace), runes("3"), key(tea.KeyEnter))
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Submitted())
	assert.Equal(t, "3", m.Values()[records.Rating])
}

func TestEnterInTextAreaAddsLine(t *testing.T) {
	m := form.NewModel("Edit Comments", []records.Field{records.Comments}, records.Values{})

	m, cmd := send(t, m, runes("one"), key(tea.KeyEnter), runes("two"))
	assert.False(t, isQuit(cmd))
	assert.False(t, m.Submitted())
	assert.Equal(t, "one\ntwo", m.Values()[records.Comments])
}

func TestShiftTabWraps(t *testing.T) {
	m := form.NewModel("Edit", records.Fields, records.Values{})

	m, _ = send(t, m, key(tea.KeyShiftTab), runes("typed into comments"))
	got := m.Values()
	assert.Empty(t, got[records.Title])
	assert.Equal(t, "typed into comments", got[records.Comments])
}

func TestCancel(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := form.NewModel("Edit", records.Fields, records.Values{records.Title: "Dune"})
		m, cmd := send(t, m, runes("x"), key(k))
		assert.True(t, isQuit(cmd))
		assert.True(t, m.Canceled())
		assert.False(t, m.Submitted())
	}
}
