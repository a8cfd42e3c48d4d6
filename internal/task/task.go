package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date form stored in Task.Date.
const DateLayout = "2006-01-02"

// TimestampLayout is the form stored in Task.CreatedAt. It matches the
// millisecond ISO-8601 UTC timestamps written by earlier versions.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var (
	// ErrTitleRequired is returned when a title is empty after trimming.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidDate is returned when a date is not empty and not YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

// Task is a single task record.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	CreatedAt   string `json:"createdAt"`
}

// HasDate reports whether the task carries a calendar date.
func (t *Task) HasDate() bool {
	return t.Date != ""
}

// Draft holds the editable fields of a task as entered by the user.
type Draft struct {
	Title       string
	Date        string
	Description string
}

// Normalize trims surrounding whitespace from every field.
func (d Draft) Normalize() Draft {
	return Draft{
		Title:       strings.TrimSpace(d.Title),
		Date:        strings.TrimSpace(d.Date),
		Description: strings.TrimSpace(d.Description),
	}
}

// Validate checks the draft after normalization.
func (d Draft) Validate() error {
	n := d.Normalize()
	if n.Title == "" {
		return &ValidationError{Path: "title", Err: ErrTitleRequired}
	}
	if n.Date != "" {
		if _, err := time.Parse(DateLayout, n.Date); err != nil {
			return &ValidationError{Path: "date", Err: ErrInvalidDate}
		}
	}
	return nil
}

// DraftOf returns the editable fields of t.
func DraftOf(t Task) Draft {
	return Draft{Title: t.Title, Date: t.Date, Description: t.Description}
}

// New creates a task from a draft with a fresh id and creation timestamp.
// The draft is normalized but not validated.
func New(d Draft, now time.Time) Task {
	n := d.Normalize()
	return Task{
		ID:          NewID(),
		Title:       n.Title,
		Date:        n.Date,
		Description: n.Description,
		Done:        false,
		CreatedAt:   FormatTimestamp(now),
	}
}

// Apply overwrites the editable fields of t with the normalized draft.
func (t *Task) Apply(d Draft) {
	n := d.Normalize()
	t.Title = n.Title
	t.Date = n.Date
	t.Description = n.Description
}

// NewID returns a fresh opaque task id.
func NewID() string {
	return uuid.NewString()
}

// FormatTimestamp formats t as a CreatedAt value.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatDate converts YYYY-MM-DD to DD/MM/YYYY. Empty input yields an empty
// string and input that is not three dash-separated parts is returned as is.
func FormatDate(iso string) string {
	if iso == "" {
		return ""
	}
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// IndexOf returns the index of the task with the given id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a pointer into tasks for the given id, or nil if not found.
func Find(tasks []Task, id string) *Task {
	if i := IndexOf(tasks, id); i >= 0 {
		return &tasks[i]
	}
	return nil
}

// Dedupe drops tasks whose id was already seen, keeping the first
// occurrence. It returns the kept tasks and the ids that were dropped.
func Dedupe(tasks []Task) ([]Task, []string) {
	seen := make(map[string]bool, len(tasks))
	kept := make([]Task, 0, len(tasks))
	var dropped []string
	for _, t := range tasks {
		if seen[t.ID] {
			dropped = append(dropped, t.ID)
			continue
		}
		seen[t.ID] = true
		kept = append(kept, t)
	}
	return kept, dropped
}
