// Package tui provides the interactive Bubble Tea ledger for purse.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/purse/internal/ledger"
	"github.com/theirongolddev/purse/internal/model"
	"github.com/theirongolddev/purse/internal/tui/components"
	"github.com/theirongolddev/purse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DayChangedMsg is sent by the rollover watcher when the accounting day moves.
type DayChangedMsg struct {
	Day model.Day
}

// opResultMsg carries the outcome of a controller call run off the update loop.
type opResultMsg struct {
	op       string
	result   ledger.Result
	decision *ledger.Decision
	record   model.Purchase
	err      error
}

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirm
)

const (
	tabHistory = 0
	tabMonths  = 1

	minTerminalWidth = 60
	maxContentWidth  = 140
	chromeHeight     = 14 // header, tabs, cards, bars, status
)

// App is the root Bubble Tea model.
type App struct {
	ctx  context.Context
	ctrl *ledger.Controller

	snap   model.Snapshot
	months []model.MonthTotal
	dirty  bool

	table table.Model
	form  entryForm

	mode     mode
	pending  *ledger.Decision
	busy     bool
	status   string
	statusOK components.StatusKind

	width     int
	height    int
	activeTab int
	showHelp  bool
}

// NewApp creates the TUI model over ctrl. ctx bounds every storage call.
func NewApp(ctx context.Context, ctrl *ledger.Controller) App {
	a := App{
		ctx:   ctx,
		ctrl:  ctrl,
		table: newHistoryTable(),
	}
	a.refresh()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

func (a *App) refresh() {
	a.snap = a.ctrl.Snapshot()
	a.months = a.ctrl.Months()
	a.dirty = a.ctrl.Dirty()

	cursor := a.table.Cursor()
	a.table.SetRows(historyRows(a.snap.Rows))
	if n := len(a.snap.Rows); cursor >= n && n > 0 {
		a.table.SetCursor(n - 1)
	}
}

func (a *App) setStatus(msg string, kind components.StatusKind) {
	a.status = msg
	a.statusOK = kind
}

// selected returns the purchase under the table cursor.
func (a App) selected() (model.Purchase, bool) {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.snap.Rows) {
		return model.Purchase{}, false
	}
	return a.snap.Rows[i].Purchase, true
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeTable()
		return a, nil

	case DayChangedMsg:
		a.refresh()
		a.setStatus(fmt.Sprintf("New day: %s (%s)", msg.Day, msg.Day.Weekday()), components.StatusInfo)
		return a, nil

	case opResultMsg:
		return a.handleResult(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.mode {
		case modeForm:
			return a.updateForm(msg)
		case modeConfirm:
			return a.updateConfirm(msg)
		}
		return a.updateBrowse(msg)
	}

	if a.mode == modeForm {
		var cmd tea.Cmd
		a.form, cmd = a.form.update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "tab", "right", "left":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "s":
		if a.busy {
			return a, nil
		}
		a.busy = true
		return a, a.syncCmd()
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	if a.activeTab != tabHistory || a.busy {
		return a, nil
	}

	switch key {
	case "a", "n":
		a.form = newAddForm()
		a.mode = modeForm
		return a, a.form.focusCmd()

	case "e", "enter":
		p, ok := a.selected()
		if !ok {
			return a, nil
		}
		a.form = newEditForm(p)
		a.mode = modeForm
		return a, a.form.focusCmd()

	case "d", "x", "delete":
		p, ok := a.selected()
		if !ok {
			return a, nil
		}
		d, err := a.ctrl.ProposeDelete(p.ID)
		if err != nil {
			a.setStatus(err.Error(), components.StatusError)
			a.refresh()
			return a, nil
		}
		a.pending = d
		a.mode = modeConfirm
		return a, nil
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeBrowse
		a.setStatus("Cancelled", components.StatusInfo)
		return a, nil

	case "enter":
		if !a.form.onLast() {
			return a, a.form.next()
		}
		if err := a.form.validate(); err != nil {
			a.form.err = err.Error()
			return a, nil
		}
		a.mode = modeBrowse
		a.busy = true
		return a, a.submitCmd(a.form)
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.update(msg)
	return a, cmd
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
		answer = false
	default:
		return a, nil
	}

	d := a.pending
	a.pending = nil
	a.mode = modeBrowse
	a.busy = true
	return a, a.resolveCmd(d, answer)
}

func (a App) handleResult(msg opResultMsg) (tea.Model, tea.Cmd) {
	a.busy = false

	if msg.decision != nil {
		a.pending = msg.decision
		a.mode = modeConfirm
		return a, nil
	}

	a.refresh()

	var persistErr bool
	if msg.err != nil {
		if !errors.Is(msg.err, ledger.ErrPersistence) {
			a.setStatus(msg.err.Error(), components.StatusError)
			return a, nil
		}
		persistErr = true
	}

	switch msg.op {
	case "sync":
		a.setStatus("Saved", components.StatusOK)
	case "edit":
		a.setStatus(fmt.Sprintf("Moved %s to %s %s", msg.record.Name, msg.record.Date, msg.record.Time), components.StatusOK)
	default:
		a.setStatus(outcomeStatus(msg.result), components.StatusOK)
		if msg.result.Outcome == ledger.OutcomeAccepted || msg.result.Outcome == ledger.OutcomeDeferred {
			a.table.GotoBottom()
		}
	}

	if persistErr {
		a.setStatus(fmt.Sprintf("%s (%v)", a.status, msg.err), components.StatusError)
	}
	return a, nil
}

func outcomeStatus(r ledger.Result) string {
	switch r.Outcome {
	case ledger.OutcomeAccepted:
		return fmt.Sprintf("Added %s. Remaining today: %s", r.Record.Name, formatMoney(r.RemainingDaily))
	case ledger.OutcomeDeferred:
		return ledger.DeferredNotice(r.Record)
	case ledger.OutcomeRejected:
		return fmt.Sprintf("%s was not added", r.Record.Name)
	case ledger.OutcomeDeleted:
		return fmt.Sprintf("Deleted %s", r.Record.Name)
	case ledger.OutcomeKept:
		return fmt.Sprintf("Kept %s", r.Record.Name)
	default:
		return r.Outcome.String()
	}
}

func (a App) submitCmd(f entryForm) tea.Cmd {
	ctx, ctrl := a.ctx, a.ctrl
	switch f.kind {
	case formEdit:
		id, date, clock := f.targetID, f.value(0), f.value(1)
		return func() tea.Msg {
			rec, err := ctrl.EditEntryDateTime(ctx, id, date, clock)
			return opResultMsg{op: "edit", record: rec, err: err}
		}
	default:
		name, price := f.value(0), f.value(1)
		return func() tea.Msg {
			res, d, err := ctrl.ProposeAdd(ctx, name, price, ctrl.Now())
			return opResultMsg{op: "add", result: res, decision: d, err: err}
		}
	}
}

func (a App) resolveCmd(d *ledger.Decision, answer bool) tea.Cmd {
	ctx, ctrl := a.ctx, a.ctrl
	return func() tea.Msg {
		res, err := ctrl.Resolve(ctx, d, answer)
		return opResultMsg{op: "resolve", result: res, err: err}
	}
}

func (a App) syncCmd() tea.Cmd {
	ctx, ctrl := a.ctx, a.ctrl
	return func() tea.Msg {
		return opResultMsg{op: "sync", err: ctrl.Sync(ctx)}
	}
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  purse needs at least %d columns.\n", a.width, minTerminalWidth)
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.contentWidth()

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(" ◈ purse"))
	b.WriteString(dateStyle.Render(fmt.Sprintf("  %s  %s", a.snap.Cursor, a.snap.Cursor.Weekday())))
	b.WriteString("\n")
	b.WriteString(components.RenderTabBar(a.activeTab))
	b.WriteString("\n")

	switch a.activeTab {
	case tabMonths:
		b.WriteString(a.renderMonthsTab(w))
	default:
		b.WriteString(a.renderHistoryTab(w))
	}
	b.WriteString("\n")

	switch a.mode {
	case modeForm:
		b.WriteString(a.form.view(w))
		b.WriteString("\n")
	case modeConfirm:
		if a.pending != nil {
			b.WriteString(components.PromptCard(a.pending.Message, w))
			b.WriteString("\n")
		}
	}

	b.WriteString(components.RenderStatusBar(w, a.hints(), a.status, a.statusOK, a.dirty))
	return b.String()
}

func (a App) hints() string {
	switch a.mode {
	case modeForm:
		return "[tab]next  [enter]save  [esc]cancel"
	case modeConfirm:
		return "[y]es  [n]o"
	}
	if a.activeTab == tabMonths {
		return "[h]istory  [s]ync  [?]help  [q]uit"
	}
	return "[a]dd  [e]dit  [d]elete  [s]ync  [?]help  [q]uit"
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	bindings := []struct{ key, desc string }{
		{"a", "Add a purchase"},
		{"e / enter", "Edit date and time of the selected purchase"},
		{"d", "Delete the selected purchase"},
		{"j k / ↑ ↓", "Move selection"},
		{"h m / tab", "Switch tab"},
		{"s", "Save again after a storage error"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, kb := range bindings {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-12s", kb.key)))
		b.WriteString(descStyle.Render(kb.desc))
		b.WriteString("\n")
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}
