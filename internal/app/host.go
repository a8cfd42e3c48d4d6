package app

import (
	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/view"
)

// Submit labels shown by hosts.
const (
	SubmitLabelAdd  = "Add"
	SubmitLabelEdit = "Save edit"
)

// Prompter asks the user for decisions and shows messages.
type Prompter interface {
	// Confirm blocks until the user answers yes (true) or no (false).
	Confirm(message string) bool
	// Alert shows a message the user must see, such as a validation failure.
	Alert(message string)
}

// Renderer draws a frame.
type Renderer interface {
	Render(Frame)
}

// Host is the environment an App runs in.
type Host interface {
	Prompter
	Renderer
}

// Persister loads and saves the whole collection.
type Persister interface {
	Load() []task.Task
	Save(tasks []task.Task) error
}

// Commands are the per-row actions bound to one task id.
type Commands struct {
	ToggleDone func() error
	BeginEdit  func() error
	Delete     func() error
}

// Row is a rendered task with its bound commands.
type Row struct {
	view.Item
	Commands Commands
}

// Counts summarizes the whole collection, ignoring search and filter.
type Counts struct {
	Total   int
	Pending int
	Done    int
}

// Frame is everything a host needs to draw the screen.
type Frame struct {
	Rows        []Row
	Query       string
	Filter      view.Filter
	Form        task.Draft
	SubmitLabel string
	// Editing is true while an edit is pending; hosts show the cancel
	// control only then.
	Editing   bool
	EditingID string
	Counts    Counts
}

// NopHost renders nothing, declines every confirmation and drops alerts.
type NopHost struct{}

func (NopHost) Render(Frame) {}

func (NopHost) Confirm(string) bool { return false }

func (NopHost) Alert(string) {}
