package tui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/photoprune/pkg/photoprune/confirm"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the model and returns the final state.
func press(m DialogModel, keys ...tea.KeyMsg) (DialogModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(DialogModel)
	}
	return m, cmd
}

func TestDialogCancelFocusedByDefault(t *testing.T) {
	m := NewDialogModel(confirm.Prompt{Files: 3, Bytes: 1300})

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.Done())
	assert.False(t, m.Confirmed())
	require.NotNil(t, cmd)
}

func TestDialogKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want bool
	}{
		{"y shortcut", []tea.KeyMsg{runes("y")}, true},
		{"Y shortcut", []tea.KeyMsg{runes("Y")}, true},
		{"n", []tea.KeyMsg{runes("n")}, false},
		{"esc", []tea.KeyMsg{{Type: tea.KeyEsc}}, false},
		{"ctrl+c", []tea.KeyMsg{{Type: tea.KeyCtrlC}}, false},
		{"tab then enter", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEnter}}, true},
		{"tab twice then enter", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyTab}, {Type: tea.KeyEnter}}, false},
		{"right then enter", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}}, true},
		{"right left enter", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyLeft}, {Type: tea.KeyEnter}}, false},
		{"l then space", []tea.KeyMsg{runes("l"), {Type: tea.KeySpace, Runes: []rune(" ")}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(NewDialogModel(confirm.Prompt{Files: 1}), tt.keys...)
			assert.True(t, m.Done())
			assert.Equal(t, tt.want, m.Confirmed())
		})
	}
}

func TestDialogIgnoresOtherKeys(t *testing.T) {
	m, cmd := press(NewDialogModel(confirm.Prompt{Files: 1}), runes("x"), tea.KeyMsg{Type: tea.KeyUp})
	assert.False(t, m.Done())
	assert.Nil(t, cmd)

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.False(t, next.(DialogModel).Done())
	assert.Nil(t, cmd)
}

func TestDialogView(t *testing.T) {
	m := NewDialogModel(confirm.Prompt{Files: 1234, Bytes: 1536})
	view := m.View()

	assert.Contains(t, view, "Confirm Deletion")
	assert.Contains(t, view, "Delete 1,234 files")
	assert.Contains(t, view, "(1.50KB)")
	assert.Contains(t, view, "Cancel")
	assert.Contains(t, view, "Delete")
	assert.NotContains(t, view, "Dry run")

	dry := NewDialogModel(confirm.Prompt{Files: 1, Bytes: 10, DryRun: true}).View()
	assert.Contains(t, dry, "Confirm Dry Run")
	assert.Contains(t, dry, "Delete 1 file ")
	assert.Contains(t, dry, "no files will be deleted")

	done, _ := press(m, runes("n"))
	assert.Empty(t, done.View())
}

func TestConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y", true},
		{"n", false},
		{"\t\r", true},
		{"\r", false},
	}

	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.input, "\t", "tab"), func(t *testing.T) {
			c := NewConfirmer(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := c.Confirm(context.Background(), confirm.Prompt{Files: 2, Bytes: 100})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirmerCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewConfirmer(pr, io.Discard)
	got, err := c.Confirm(ctx, confirm.Prompt{Files: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, got)
}
