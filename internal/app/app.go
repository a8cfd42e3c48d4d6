package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/view"
)

var (
	// ErrValidation wraps input validation failures from Submit and Edit.
	ErrValidation = errors.New("invalid task")
	// ErrNotFound is returned by Resolve when no task matches.
	ErrNotFound = errors.New("task not found")
	// ErrAmbiguous is returned by Resolve when a prefix matches several tasks.
	ErrAmbiguous = errors.New("ambiguous task id")
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for operation tracing.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithFilter sets the initial filter selection.
func WithFilter(f view.Filter) Option {
	return func(a *App) {
		a.filter = view.ParseFilter(string(f))
	}
}

// App is the application state and its operations.
type App struct {
	store  Persister
	host   Host
	logger *log.Logger
	now    func() time.Time

	tasks  []task.Task
	editID string
	form   task.Draft
	query  string
	filter view.Filter
}

// New returns an App with an empty collection. Call Load to read the store.
func New(store Persister, host Host, opts ...Option) *App {
	if host == nil {
		host = NopHost{}
	}
	a := &App{
		store:  store,
		host:   host,
		logger: log.New(io.Discard),
		now:    time.Now,
		tasks:  []task.Task{},
		filter: view.FilterAll,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load replaces the collection with the stored one and renders.
func (a *App) Load() {
	a.tasks = a.store.Load()
	if a.tasks == nil {
		a.tasks = []task.Task{}
	}
	a.logger.Debug("collection loaded", "count", len(a.tasks))
	a.Render()
}

// Tasks returns a copy of the collection in stored order.
func (a *App) Tasks() []task.Task {
	out := make([]task.Task, len(a.tasks))
	copy(out, a.tasks)
	return out
}

// Lookup returns the task with the given id.
func (a *App) Lookup(id string) (task.Task, bool) {
	if t := task.Find(a.tasks, id); t != nil {
		return *t, true
	}
	return task.Task{}, false
}

// Resolve maps an exact id or a unique id prefix to a task id.
func (a *App) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNotFound
	}
	if _, ok := a.Lookup(ref); ok {
		return ref, nil
	}
	var matches []string
	for _, t := range a.tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguous, ref, len(matches))
	}
}

// Form returns the current form contents.
func (a *App) Form() task.Draft {
	return a.form
}

// SetForm replaces the form contents. It does not render.
func (a *App) SetForm(d task.Draft) {
	a.form = d
}

// Editing returns the id being edited, if any.
func (a *App) Editing() (string, bool) {
	return a.editID, a.editID != ""
}

// Query returns the current search text.
func (a *App) Query() string {
	return a.query
}

// Filter returns the current filter selection.
func (a *App) Filter() view.Filter {
	return a.filter
}

// Submit adds a task from the form, or commits the pending edit. An invalid
// form is reported to the host and nothing changes.
func (a *App) Submit() error {
	d := a.form.Normalize()
	if err := d.Validate(); err != nil {
		a.host.Alert(validationMessage(err))
		a.logger.Debug("submit rejected", "err", err)
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if a.editID != "" {
		if t := task.Find(a.tasks, a.editID); t != nil {
			t.Apply(d)
			a.logger.Info("task updated", "id", a.editID)
		} else {
			a.logger.Debug("edited task no longer exists", "id", a.editID)
		}
		a.editID = ""
	} else {
		t := task.New(d, a.now())
		a.tasks = append(a.tasks, t)
		a.logger.Info("task added", "id", t.ID, "title", t.Title)
	}

	a.form = task.Draft{}
	return a.persist()
}

// Edit overwrites the editable fields of one task in a single step.
// A missing id is a no-op.
func (a *App) Edit(id string, d task.Draft) error {
	if err := d.Validate(); err != nil {
		a.host.Alert(validationMessage(err))
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	t := task.Find(a.tasks, id)
	if t == nil {
		return nil
	}
	t.Apply(d)
	if a.editID == id {
		a.editID = ""
		a.form = task.Draft{}
	}
	a.logger.Info("task updated", "id", id)
	return a.persist()
}

// BeginEdit loads a task into the form and switches Submit to update mode.
// A missing id is a no-op.
func (a *App) BeginEdit(id string) {
	t := task.Find(a.tasks, id)
	if t == nil {
		return
	}
	a.editID = id
	a.form = task.DraftOf(*t)
	a.logger.Debug("edit started", "id", id)
	a.Render()
}

// CancelEdit drops the pending edit and clears the form.
func (a *App) CancelEdit() {
	a.editID = ""
	a.form = task.Draft{}
	a.Render()
}

// ToggleDone flips the done flag of a task. A missing id is a no-op.
func (a *App) ToggleDone(id string) error {
	t := task.Find(a.tasks, id)
	if t == nil {
		return nil
	}
	t.Done = !t.Done
	a.logger.Info("task toggled", "id", id, "done", t.Done)
	return a.persist()
}

// Delete removes a task after the host confirms. A missing id or a declined
// confirmation leaves everything unchanged.
func (a *App) Delete(id string) error {
	i := task.IndexOf(a.tasks, id)
	if i < 0 {
		return nil
	}
	if !a.host.Confirm(fmt.Sprintf("Delete task %q?", a.tasks[i].Title)) {
		a.logger.Debug("delete declined", "id", id)
		return nil
	}
	a.tasks = append(a.tasks[:i], a.tasks[i+1:]...)
	if a.editID == id {
		a.editID = ""
		a.form = task.Draft{}
	}
	a.logger.Info("task deleted", "id", id)
	return a.persist()
}

// ClearAll empties the collection after the host confirms.
func (a *App) ClearAll() error {
	if !a.host.Confirm("Delete all saved tasks?") {
		a.logger.Debug("clear declined")
		return nil
	}
	a.tasks = []task.Task{}
	a.editID = ""
	a.form = task.Draft{}
	a.logger.Info("all tasks cleared")
	return a.persist()
}

// SetQuery updates the search text and renders.
func (a *App) SetQuery(q string) {
	a.query = q
	a.Render()
}

// SetFilter updates the filter selection and renders.
func (a *App) SetFilter(f view.Filter) {
	a.filter = view.ParseFilter(string(f))
	a.Render()
}

// Render sends the current frame to the host.
func (a *App) Render() {
	a.host.Render(a.Frame())
}

// Frame computes the current frame.
func (a *App) Frame() Frame {
	items := view.Render(a.tasks, a.query, a.filter)
	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = Row{Item: it, Commands: a.commandsFor(it.ID)}
	}

	label := SubmitLabelAdd
	if a.editID != "" {
		label = SubmitLabelEdit
	}

	return Frame{
		Rows:        rows,
		Query:       a.query,
		Filter:      a.filter,
		Form:        a.form,
		SubmitLabel: label,
		Editing:     a.editID != "",
		EditingID:   a.editID,
		Counts:      a.counts(),
	}
}

func (a *App) commandsFor(id string) Commands {
	return Commands{
		ToggleDone: func() error { return a.ToggleDone(id) },
		BeginEdit: func() error {
			a.BeginEdit(id)
			return nil
		},
		Delete: func() error { return a.Delete(id) },
	}
}

func (a *App) counts() Counts {
	c := Counts{Total: len(a.tasks)}
	for _, t := range a.tasks {
		if t.Done {
			c.Done++
		} else {
			c.Pending++
		}
	}
	return c
}

// persist saves the collection and renders. The in-memory change stands
// even when the save fails.
func (a *App) persist() error {
	err := a.store.Save(a.tasks)
	if err != nil {
		a.logger.Error("failed to save tasks", "err", err)
	}
	a.Render()
	if err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, task.ErrTitleRequired):
		return "Enter a title for the task."
	case errors.Is(err, task.ErrInvalidDate):
		return "Enter the date as YYYY-MM-DD or leave it empty."
	default:
		return err.Error()
	}
}
