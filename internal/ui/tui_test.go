package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/view"
)

func newTestModel(t *testing.T, seed []task.Task) (*Model, *storage.Store) {
	t.Helper()
	store := storage.NewStore(storage.NewMemory(), "", nil)
	if seed != nil {
		if err := store.Save(seed); err != nil {
			t.Fatal(err)
		}
	}
	return NewModel(store, Options{}), store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func seedTasks() []task.Task {
	return []task.Task{
		{ID: "b", Title: "Later", Date: "2024-02-01"},
		{ID: "a", Title: "Sooner", Date: "2024-01-05", Description: "first thing"},
		{ID: "c", Title: "Someday"},
	}
}

func TestAddTaskThroughForm(t *testing.T) {
	m, store := newTestModel(t, nil)

	press(m, "a")
	if m.mode != modeForm {
		t.Fatalf("mode: got %v, want form", m.mode)
	}
	typeText(m, "Buy milk")
	press(m, "tab")
	typeText(m, "2024-01-10")
	press(m, "enter")

	if m.mode != modeList {
		t.Errorf("mode after submit: got %v, want list", m.mode)
	}
	tasks := store.Load()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" || tasks[0].Date != "2024-01-10" {
		t.Fatalf("stored tasks: %+v", tasks)
	}
	if out := m.View(); !strings.Contains(out, "10/01/2024") || !strings.Contains(out, "Task added") {
		t.Errorf("view missing new row or status:\n%s", out)
	}
}

func TestEmptyTitleKeepsFormOpen(t *testing.T) {
	m, store := newTestModel(t, nil)

	press(m, "a", "enter")

	if m.mode != modeForm {
		t.Errorf("mode: got %v, want form", m.mode)
	}
	if !m.host.isError || !strings.Contains(m.host.status, "title") {
		t.Errorf("status: got %q (error=%v)", m.host.status, m.host.isError)
	}
	if len(store.Load()) != 0 {
		t.Error("invalid form was saved")
	}
}

func TestInvalidDateFocusesDateField(t *testing.T) {
	m, _ := newTestModel(t, nil)

	press(m, "a")
	typeText(m, "x")
	press(m, "tab")
	typeText(m, "tomorrow")
	press(m, "enter")

	if m.mode != modeForm || m.focus != fieldDate {
		t.Errorf("mode=%v focus=%d, want form on date field", m.mode, m.focus)
	}
}

func TestRowsAreSortedAndCursorToggles(t *testing.T) {
	m, store := newTestModel(t, seedTasks())

	rows := m.host.frame.Rows
	if len(rows) != 3 || rows[0].ID != "a" || rows[1].ID != "b" || rows[2].ID != "c" {
		t.Fatalf("rows: %+v", rows)
	}

	press(m, "down", "space")
	for _, tk := range store.Load() {
		if got, want := tk.Done, tk.ID == "b"; got != want {
			t.Errorf("task %s done=%v, want %v", tk.ID, got, want)
		}
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m, store := newTestModel(t, seedTasks())

	press(m, "d")
	if m.mode != modeConfirm {
		t.Fatalf("mode: got %v, want confirm", m.mode)
	}
	if !strings.Contains(m.View(), `Delete task "Sooner"?`) {
		t.Errorf("prompt not shown:\n%s", m.View())
	}
	press(m, "n")
	if len(store.Load()) != 3 {
		t.Fatal("declined delete removed a task")
	}

	press(m, "d", "y")
	if m.mode != modeList {
		t.Errorf("mode: got %v, want list", m.mode)
	}
	tasks := store.Load()
	if len(tasks) != 2 {
		t.Fatalf("tasks after delete: %+v", tasks)
	}
	for _, tk := range tasks {
		if tk.ID == "a" {
			t.Error("wrong task deleted")
		}
	}
}

func TestClearAll(t *testing.T) {
	m, store := newTestModel(t, seedTasks())

	press(m, "C", "y")
	if len(store.Load()) != 0 {
		t.Error("clear all did not empty the store")
	}
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Errorf("empty view:\n%s", m.View())
	}
}

func TestEditAndCancel(t *testing.T) {
	m, store := newTestModel(t, seedTasks())

	press(m, "e")
	if m.mode != modeForm || m.inputs[fieldTitle].Value() != "Sooner" {
		t.Fatalf("edit form: mode=%v title=%q", m.mode, m.inputs[fieldTitle].Value())
	}
	if !strings.Contains(m.View(), "Save edit") {
		t.Error("submit label not switched to edit")
	}
	typeText(m, " changed")
	press(m, "esc")

	if _, editing := m.app.Editing(); editing {
		t.Error("edit still pending after esc")
	}
	for _, tk := range store.Load() {
		if tk.ID == "a" && tk.Title != "Sooner" {
			t.Errorf("cancelled edit changed title to %q", tk.Title)
		}
	}

	press(m, "e")
	typeText(m, " now")
	press(m, "enter")
	for _, tk := range store.Load() {
		if tk.ID == "a" && tk.Title != "Sooner now" {
			t.Errorf("committed title: got %q", tk.Title)
		}
	}
}

func TestSearchAndFilterKeys(t *testing.T) {
	m, _ := newTestModel(t, seedTasks())

	press(m, "/")
	typeText(m, "FIRST")
	if m.app.Query() != "FIRST" {
		t.Fatalf("query: got %q", m.app.Query())
	}
	if rows := m.host.frame.Rows; len(rows) != 1 || rows[0].ID != "a" {
		t.Errorf("search rows: %+v", rows)
	}
	press(m, "enter")
	if m.mode != modeList || m.app.Query() != "FIRST" {
		t.Errorf("enter should keep the query: mode=%v query=%q", m.mode, m.app.Query())
	}
	press(m, "esc")
	if m.app.Query() != "" {
		t.Error("esc in list mode should clear the search")
	}

	press(m, "space", "3")
	if m.app.Filter() != view.FilterDone || len(m.host.frame.Rows) != 1 {
		t.Errorf("done filter: %q rows=%d", m.app.Filter(), len(m.host.frame.Rows))
	}
	press(m, "f")
	if m.app.Filter() != view.FilterAll {
		t.Errorf("f should cycle done -> all, got %q", m.app.Filter())
	}
}

func TestCursorClampsAfterFilter(t *testing.T) {
	m, _ := newTestModel(t, seedTasks())
	press(m, "G")
	if m.cursor != 2 {
		t.Fatalf("cursor: got %d, want 2", m.cursor)
	}
	press(m, "/")
	typeText(m, "sooner")
	if m.cursor != 0 {
		t.Errorf("cursor after narrowing: got %d, want 0", m.cursor)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
	if _, cmd := m.Update(key("ctrl+c")); cmd == nil {
		t.Error("ctrl+c should return a quit command")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, nil)
	press(m, "h")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help not shown")
	}
	press(m, "h")
	if strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help not hidden")
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		cursor, length, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{-1, 3, 0},
		{3, 3, 2},
		{1, 3, 1},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cursor, tt.length); got != tt.want {
			t.Errorf("clampCursor(%d, %d): got %d, want %d", tt.cursor, tt.length, got, tt.want)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer reported as TTY")
	}
}
