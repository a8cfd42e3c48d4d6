// Package view derives the displayed task list from the collection.
package view

import (
	"sort"
	"strings"

	"github.com/nibzard/tasklist/internal/task"
)

// Filter selects tasks by completion state.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterPending Filter = "pending"
	FilterDone    Filter = "done"
)

// NoDateLabel is shown in place of a date for dateless tasks.
const NoDateLabel = "No date"

// Filters returns the selectable filters in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterDone}
}

// ParseFilter normalizes user input. Unknown values map to FilterAll.
func ParseFilter(s string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterPending, FilterDone:
		return f
	default:
		return FilterAll
	}
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	all := Filters()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+1)%len(all)]
		}
	}
	return FilterAll
}

// Keep reports whether a task with the given done state passes the filter.
func (f Filter) Keep(done bool) bool {
	switch f {
	case FilterPending:
		return !done
	case FilterDone:
		return done
	default:
		return true
	}
}

// Item is one display-ready row.
type Item struct {
	ID          string
	Title       string
	Description string
	Date        string // raw YYYY-MM-DD, may be empty
	DateLabel   string // DD/MM/YYYY or NoDateLabel
	Done        bool
}

// Render sorts, filters and searches tasks and returns the rows to display.
// The input slice is not modified.
func Render(tasks []task.Task, query string, filter Filter) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	items := make([]Item, 0, len(tasks))
	for _, t := range Sort(tasks) {
		if !filter.Keep(t.Done) {
			continue
		}
		if !Matches(t, q) {
			continue
		}
		items = append(items, newItem(t))
	}
	return items
}

// Sort returns a copy of tasks ordered by date ascending, dateless tasks
// last. Equal dates keep their input order.
func Sort(tasks []task.Task) []task.Task {
	sorted := make([]task.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dateLess(sorted[i].Date, sorted[j].Date)
	})
	return sorted
}

// dateLess orders ISO dates lexicographically with empty dates last.
func dateLess(a, b string) bool {
	switch {
	case a == "" && b == "":
		return false
	case a == "":
		return false
	case b == "":
		return true
	default:
		return a < b
	}
}

// Matches reports whether the lowercase query occurs in the task's title or
// description. An empty query matches everything.
func Matches(t task.Task, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	combined := strings.ToLower(t.Title + " " + t.Description)
	return strings.Contains(combined, lowerQuery)
}

func newItem(t task.Task) Item {
	label := NoDateLabel
	if t.HasDate() {
		label = task.FormatDate(t.Date)
	}
	return Item{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		DateLabel:   label,
		Done:        t.Done,
	}
}
