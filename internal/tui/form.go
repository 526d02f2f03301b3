package tui

import (
	"strings"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/model"
	"github.com/theirongolddev/purse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formKind int

const (
	formAdd formKind = iota
	formEdit
)

// entryForm is the inline add/edit form: two text inputs and a focus index.
type entryForm struct {
	kind     formKind
	title    string
	labels   []string
	inputs   []textinput.Model
	focus    int
	targetID string // edit only
	err      string
}

func newInput(placeholder, value string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 30
	ti.SetValue(value)
	return ti
}

func newAddForm() entryForm {
	f := entryForm{
		kind:   formAdd,
		title:  "Add purchase",
		labels: []string{"Item", "Price"},
		inputs: []textinput.Model{
			newInput("Milk", "", 64),
			newInput("4000", "", 16),
		},
	}
	f.inputs[0].Focus()
	return f
}

func newEditForm(p model.Purchase) entryForm {
	f := entryForm{
		kind:     formEdit,
		title:    "Edit " + p.Name,
		labels:   []string{"Date", "Time"},
		targetID: p.ID,
		inputs: []textinput.Model{
			newInput(model.DayLayout, p.DateText(), 10),
			newInput("HH:MM", p.Time, 5),
		},
	}
	f.inputs[0].Focus()
	return f
}

func (f entryForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f entryForm) onLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f entryForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *entryForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *entryForm) next() tea.Cmd {
	return f.setFocus(f.focus + 1)
}

// validate catches input mistakes before they reach the controller, so the
// form can stay open with an inline error.
func (f entryForm) validate() error {
	if f.kind == formEdit {
		if _, err := model.ParseDay(f.value(0)); err != nil {
			return err
		}
		_, err := model.ParseClock(f.value(1))
		return err
	}
	if err := cli.ValidateName(f.value(0)); err != nil {
		return err
	}
	return cli.ValidatePrice(f.value(1))
}

func (f entryForm) update(msg tea.Msg) (entryForm, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab", "down":
			return f, f.next()
		case "shift+tab", "up":
			return f, f.setFocus(f.focus - 1)
		}
		f.err = ""
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f entryForm) view(width int) string {
	t := theme.Active

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Width(width-2).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	errStyle := lipgloss.NewStyle().Foreground(t.Red)

	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	for i, in := range f.inputs {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(padRight(f.labels[i], 7)))
		b.WriteString(in.View())
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(f.err))
	}
	return box.Render(b.String())
}
