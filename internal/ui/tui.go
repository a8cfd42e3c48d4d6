// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/app"
	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/utils"
	"github.com/nibzard/tasklist/internal/view"
)

// Options configures the TUI.
type Options struct {
	Filter view.Filter
	Logger *log.Logger
}

// Run starts the TUI over store.
func Run(ctx context.Context, store app.Persister, opts Options) error {
	if !IsTTY(os.Stdout) {
		return errors.New("tui requires a TTY")
	}
	m := NewModel(store, opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
	modeConfirm
)

const (
	fieldTitle = iota
	fieldDate
	fieldDescription
	fieldCount
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	activeStyle = lipgloss.NewStyle().Underline(true).Bold(true)
)

// tuiHost receives frames and alerts from the app. Confirmation is two-step:
// an unarmed Confirm records the question and declines, and the model asks
// the user before replaying the action with an armed answer.
type tuiHost struct {
	frame    app.Frame
	status   string
	isError  bool
	armed    bool
	answer   bool
	question string
}

func (h *tuiHost) Render(f app.Frame) { h.frame = f }

func (h *tuiHost) Alert(msg string) {
	h.status = msg
	h.isError = true
}

func (h *tuiHost) Confirm(msg string) bool {
	if h.armed {
		h.armed = false
		return h.answer
	}
	h.question = msg
	return false
}

// Model is the bubbletea model for the task list.
type Model struct {
	app    *app.App
	host   *tuiHost
	logger *log.Logger

	mode     mode
	cursor   int
	inputs   []textinput.Model
	focus    int
	search   textinput.Model
	pending  func() error
	done     string
	showHelp bool
}

// NewModel loads the collection from store and returns a ready model.
func NewModel(store app.Persister, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	host := &tuiHost{}
	a := app.New(store, host, app.WithLogger(logger), app.WithFilter(opts.Filter))

	m := &Model{
		app:    a,
		host:   host,
		logger: logger,
		inputs: newFormInputs(),
		search: newInput("Search title or description", 40),
	}
	a.Load()
	m.setStatus("Press a to add a task, h for help.")
	return m
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = width
	return ti
}

func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldTitle] = newInput("Task title", 40)
	inputs[fieldDate] = newInput("YYYY-MM-DD (optional)", 12)
	inputs[fieldDate].CharLimit = len(task.DateLayout)
	inputs[fieldDescription] = newInput("Notes (optional)", 60)
	return inputs
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirm:
			return m.updateConfirm(msg.String())
		default:
			return m.updateList(msg.String())
		}
	case tea.WindowSizeMsg:
		if w := msg.Width - 12; w > 20 {
			m.inputs[fieldTitle].Width = w
			m.inputs[fieldDescription].Width = w
			m.search.Width = w
		}
	}
	return m, nil
}

func (m *Model) updateList(key string) (tea.Model, tea.Cmd) {
	rows := m.host.frame.Rows
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(rows) - 1
		m.clampCursor()
	case "a", "n":
		return m, m.openForm()
	case "e", "enter":
		if row, ok := m.currentRow(); ok {
			row.Commands.BeginEdit()
			return m, m.openForm()
		}
	case " ", "x":
		if row, ok := m.currentRow(); ok {
			if err := row.Commands.ToggleDone(); err != nil {
				m.setError(err)
			} else {
				m.setStatus("Toggled task")
			}
		}
	case "d", "delete":
		if row, ok := m.currentRow(); ok {
			m.confirmThen(row.Commands.Delete, "Deleted task")
		}
	case "C":
		m.confirmThen(m.app.ClearAll, "Cleared all tasks")
	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.app.Query())
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "esc":
		if m.app.Query() != "" {
			m.app.SetQuery("")
			m.setStatus("Search cleared")
		}
	case "f", "tab":
		m.app.SetFilter(m.app.Filter().Next())
	case "1":
		m.app.SetFilter(view.FilterAll)
	case "2":
		m.app.SetFilter(view.FilterPending)
	case "3":
		m.app.SetFilter(view.FilterDone)
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if _, editing := m.app.Editing(); editing {
			m.app.CancelEdit()
			m.setStatus("Edit cancelled")
		} else {
			m.app.SetForm(task.Draft{})
			m.setStatus("Cancelled")
		}
		m.closeForm()
		return m, nil
	case "tab", "down":
		return m, m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	_, editing := m.app.Editing()
	m.app.SetForm(m.formDraft())
	err := m.app.Submit()
	switch {
	case errors.Is(err, app.ErrValidation):
		// The app already alerted; keep the form open for correction.
		if errors.Is(err, task.ErrInvalidDate) {
			return m, m.focusField(fieldDate)
		}
		return m, m.focusField(fieldTitle)
	case err != nil:
		m.setError(err)
	case editing:
		m.setStatus("Task updated")
	default:
		m.setStatus("Task added")
	}
	m.closeForm()
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.mode = modeList
		return m, nil
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.app.SetQuery("")
		m.mode = modeList
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.app.Query() {
		m.app.SetQuery(m.search.Value())
		m.clampCursor()
	}
	return m, cmd
}

func (m *Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.host.armed, m.host.answer = true, true
		err := m.pending()
		m.host.armed = false
		if err != nil {
			m.setError(err)
		} else {
			m.setStatus(m.done)
		}
	case "n", "N", "esc":
		m.setStatus("Cancelled")
	default:
		return m, nil
	}
	m.mode = modeList
	m.pending = nil
	m.host.question = ""
	m.clampCursor()
	return m, nil
}

// confirmThen runs action. If the app asks for confirmation the model
// switches to confirm mode and replays action once the user answers.
func (m *Model) confirmThen(action func() error, done string) {
	m.host.question = ""
	if err := action(); err != nil {
		m.setError(err)
		return
	}
	if m.host.question == "" {
		return
	}
	m.mode = modeConfirm
	m.pending = action
	m.done = done
}

func (m *Model) openForm() tea.Cmd {
	form := m.app.Form()
	m.inputs[fieldTitle].SetValue(form.Title)
	m.inputs[fieldDate].SetValue(form.Date)
	m.inputs[fieldDescription].SetValue(form.Description)
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
	m.mode = modeForm
	if _, editing := m.app.Editing(); editing {
		m.setStatus("Editing task: enter to save, esc to cancel")
	} else {
		m.setStatus("New task: enter to add, tab for next field, esc to cancel")
	}
	return m.focusField(fieldTitle)
}

func (m *Model) closeForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldTitle
	m.mode = modeList
	m.clampCursor()
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) formDraft() task.Draft {
	return task.Draft{
		Title:       m.inputs[fieldTitle].Value(),
		Date:        m.inputs[fieldDate].Value(),
		Description: m.inputs[fieldDescription].Value(),
	}
}

func (m *Model) currentRow() (app.Row, bool) {
	rows := m.host.frame.Rows
	if m.cursor < 0 || m.cursor >= len(rows) {
		return app.Row{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	m.cursor = clampCursor(m.cursor, len(m.host.frame.Rows))
}

func clampCursor(cursor, length int) int {
	if length == 0 || cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}

func (m *Model) setStatus(s string) {
	m.host.status = s
	m.host.isError = false
}

func (m *Model) setError(err error) {
	m.logger.Error("operation failed", "err", err)
	m.host.status = err.Error()
	m.host.isError = true
}

func (m *Model) View() string {
	var b strings.Builder
	frame := m.host.frame

	writeTitle(&b)
	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.mode)
		return b.String()
	}

	writeFilterBar(&b, frame, m.mode == modeSearch, m.search.View())
	writeCounts(&b, frame.Counts)
	m.writeRows(&b, frame)

	if m.mode == modeForm {
		m.writeForm(&b, frame)
	}
	if m.mode == modeConfirm {
		b.WriteString(promptStyle.Render(m.host.question+" (y/n)") + "\n\n")
	} else if m.host.status != "" {
		if m.host.isError {
			b.WriteString(errorStyle.Render(m.host.status) + "\n\n")
		} else {
			b.WriteString(mutedStyle.Render(m.host.status) + "\n\n")
		}
	}
	writeFooter(&b, m.mode)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "Task List"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeFilterBar(b *strings.Builder, frame app.Frame, searching bool, searchView string) {
	parts := make([]string, 0, len(view.Filters()))
	for i, f := range view.Filters() {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == frame.Filter {
			label = activeStyle.Render(label)
		}
		parts = append(parts, label)
	}
	b.WriteString("Filter: " + strings.Join(parts, "  "))

	switch {
	case searching:
		b.WriteString("\nSearch: " + searchView)
	case frame.Query != "":
		b.WriteString(fmt.Sprintf("\nSearch: %q (esc to clear)", frame.Query))
	}
	b.WriteString("\n\n")
}

func writeCounts(b *strings.Builder, c app.Counts) {
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Total: %d  Pending: %d  Done: %d", c.Total, c.Pending, c.Done)))
	b.WriteString("\n\n")
}

func (m *Model) writeRows(b *strings.Builder, frame app.Frame) {
	if len(frame.Rows) == 0 {
		if frame.Counts.Total == 0 {
			b.WriteString("  No tasks yet. Press a to add one.\n\n")
		} else {
			b.WriteString("  No tasks match the current filter or search.\n\n")
		}
		return
	}

	for i, row := range frame.Rows {
		b.WriteString(formatRow(row, i == m.cursor && m.mode == modeList, row.ID == frame.EditingID))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func formatRow(row app.Row, selected, editing bool) string {
	cursor := " "
	if selected {
		cursor = cursorStyle.Render(">")
	}
	checkbox := "[ ]"
	if row.Done {
		checkbox = "[x]"
	}
	title := row.Title
	if row.Done {
		title = doneStyle.Render(title)
	}
	if editing {
		title += mutedStyle.Render(" (editing)")
	}

	line := fmt.Sprintf("%s %s %s  %s", cursor, checkbox, dateStyle.Render(fmt.Sprintf("%-10s", row.DateLabel)), title)
	if row.Description != "" {
		line += "\n" + strings.Repeat(" ", 19) + mutedStyle.Render(utils.Truncate(row.Description, 60))
	}
	return line
}

func (m *Model) writeForm(b *strings.Builder, frame app.Frame) {
	heading := "New task"
	if frame.Editing {
		heading = "Edit task"
	}
	b.WriteString(titleStyle.Render(heading) + "\n\n")

	labels := [fieldCount]string{"Title", "Date", "Notes"}
	for i, input := range m.inputs {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", labels[i]+":", input.View()))
	}
	b.WriteString(fmt.Sprintf("\n  enter %s | tab next field | esc cancel\n\n", frame.SubmitLabel))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  j/k, up/down  Move\n")
	b.WriteString("  a, n          Add a task\n")
	b.WriteString("  e, enter      Edit the selected task\n")
	b.WriteString("  space, x      Toggle done\n")
	b.WriteString("  d             Delete the selected task\n")
	b.WriteString("  C             Delete all tasks\n")
	b.WriteString("  /             Search (esc clears)\n")
	b.WriteString("  f, tab        Cycle filter\n")
	b.WriteString("  1 / 2 / 3     Show all / pending / done\n")
	b.WriteString("  h, ?          Toggle this help screen\n")
	b.WriteString("  q, ctrl+c     Quit\n\n")
}

func writeFooter(b *strings.Builder, md mode) {
	var hint string
	switch md {
	case modeForm:
		hint = "enter submit | tab/shift+tab move | esc cancel"
	case modeSearch:
		hint = "type to search | enter keep | esc clear"
	case modeConfirm:
		hint = "y confirm | n cancel"
	default:
		hint = "a add | e edit | space toggle | d delete | / search | f filter | h help | q quit"
	}
	b.WriteString(mutedStyle.Render(hint) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
