package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/photoprune/pkg/photoprune/confirm"
	"github.com/jamesainslie/photoprune/pkg/photoprune/logging"
	"github.com/jamesainslie/photoprune/pkg/photoprune/types"
)

var logger = logging.Get("tui")

// button identifies a dialog button.
type button int

const (
	buttonCancel button = iota
	buttonDelete
)

type keyMap struct {
	Yes    key.Binding
	No     key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Select key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "delete"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "q", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "choose"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// DialogModel is the Bubble Tea model of the confirmation dialog. Cancel
// has focus when the dialog opens.
type DialogModel struct {
	prompt  confirm.Prompt
	keys    keyMap
	focused button

	done      bool
	confirmed bool
}

// NewDialogModel creates a dialog asking about p.
func NewDialogModel(p confirm.Prompt) DialogModel {
	return DialogModel{
		prompt:  p,
		keys:    newKeyMap(),
		focused: buttonCancel,
	}
}

// Confirmed reports whether the user chose Delete.
func (m DialogModel) Confirmed() bool {
	return m.confirmed
}

// Done reports whether the user has answered.
func (m DialogModel) Done() bool {
	return m.done
}

// Init initializes the model.
func (m DialogModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit), key.Matches(keyMsg, m.keys.No):
		return m.answer(false)
	case key.Matches(keyMsg, m.keys.Yes):
		return m.answer(true)
	case key.Matches(keyMsg, m.keys.Left):
		m.focused = buttonCancel
	case key.Matches(keyMsg, m.keys.Right):
		m.focused = buttonDelete
	case key.Matches(keyMsg, m.keys.Toggle):
		m.focused = (m.focused + 1) % 2
	case key.Matches(keyMsg, m.keys.Select):
		return m.answer(m.focused == buttonDelete)
	}
	return m, nil
}

func (m DialogModel) answer(yes bool) (tea.Model, tea.Cmd) {
	m.done = true
	m.confirmed = yes
	return m, tea.Quit
}

// View renders the dialog.
func (m DialogModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	title := "Confirm Deletion"
	if m.prompt.DryRun {
		title = "Confirm Dry Run"
	}
	b.WriteString(dialogTitleStyle.Render(title))
	b.WriteString("\n\n")

	noun := "files"
	if m.prompt.Files == 1 {
		noun = "file"
	}
	b.WriteString(dialogTextStyle.Render(fmt.Sprintf("Delete %s %s", humanize.Comma(int64(m.prompt.Files)), noun)))
	b.WriteString(" ")
	b.WriteString(sizeStyle.Render(fmt.Sprintf("(%s)", types.FormatSize(m.prompt.Bytes))))
	b.WriteString(dialogTextStyle.Render("?"))
	b.WriteString("\n")

	if m.prompt.DryRun {
		b.WriteString(dryRunStyle.Render("(Dry run - no files will be deleted)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	cancelBtn := buttonStyle(m.focused == buttonCancel, false).Render("Cancel")
	deleteBtn := buttonStyle(m.focused == buttonDelete, true).Render("Delete")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, cancelBtn, deleteBtn))
	b.WriteString("\n\n")
	b.WriteString(m.renderHints())

	return dialogBoxStyle.Render(b.String()) + "\n"
}

func (m DialogModel) renderHints() string {
	bindings := []key.Binding{m.keys.Yes, m.keys.No, m.keys.Toggle, m.keys.Select}
	hints := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		hints = append(hints, keyStyle.Render(h.Key)+" "+keyDescStyle.Render(h.Desc))
	}
	return strings.Join(hints, "  ")
}

// Confirmer asks through the dialog. It implements confirm.Confirmer.
type Confirmer struct {
	in  io.Reader
	out io.Writer
}

// NewConfirmer returns a Confirmer reading keys from in and drawing on out.
// Nil streams mean the terminal.
func NewConfirmer(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: in, out: out}
}

// Confirm runs the dialog until the user answers or ctx is cancelled.
func (c *Confirmer) Confirm(ctx context.Context, p confirm.Prompt) (bool, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.in != nil {
		opts = append(opts, tea.WithInput(c.in))
	}
	if c.out != nil {
		opts = append(opts, tea.WithOutput(c.out))
	}

	final, err := tea.NewProgram(NewDialogModel(p), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, tea.ErrProgramKilled) {
			return false, ctxErr
		}
		return false, fmt.Errorf("running confirmation dialog: %w", err)
	}

	m, ok := final.(DialogModel)
	if !ok {
		return false, fmt.Errorf("unexpected dialog model %T", final)
	}
	logger.Debug("dialog answered", "confirmed", m.Confirmed())
	return m.Confirmed(), nil
}

var _ confirm.Confirmer = (*Confirmer)(nil)
