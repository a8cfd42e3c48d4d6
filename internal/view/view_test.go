package view

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nibzard/tasklist/internal/task"
)

func fixture() []task.Task {
	return []task.Task{
		{ID: "nodate-1", Title: "Read book", Description: "Sci-fi"},
		{ID: "feb", Title: "Dentist", Date: "2024-02-01"},
		{ID: "jan5", Title: "Buy MILK", Date: "2024-01-05", Done: true},
		{ID: "nodate-2", Title: "Water plants", Done: true},
		{ID: "jan5-b", Title: "Call mom", Date: "2024-01-05", Description: "about milk"},
		{ID: "dec", Title: "Pay rent", Date: "2023-12-31"},
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestRenderSortsByDateWithDatelessLast(t *testing.T) {
	got := ids(Render(fixture(), "", FilterAll))
	want := []string{"dec", "jan5", "jan5-b", "feb", "nodate-1", "nodate-2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortLaw(t *testing.T) {
	for _, filter := range Filters() {
		for _, query := range []string{"", "milk", "e"} {
			items := Render(fixture(), query, filter)
			seenDateless := false
			for i, it := range items {
				if it.Date == "" {
					seenDateless = true
					continue
				}
				if seenDateless {
					t.Errorf("filter=%s q=%q: dated item %s after a dateless one", filter, query, it.ID)
				}
				if i > 0 && items[i-1].Date != "" && items[i-1].Date > it.Date {
					t.Errorf("filter=%s q=%q: %s (%s) before %s (%s)", filter, query,
						items[i-1].ID, items[i-1].Date, it.ID, it.Date)
				}
			}
		}
	}
}

func TestFilterLaw(t *testing.T) {
	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"dec", "jan5", "jan5-b", "feb", "nodate-1", "nodate-2"}},
		{FilterPending, []string{"dec", "jan5-b", "feb", "nodate-1"}},
		{FilterDone, []string{"jan5", "nodate-2"}},
		{Filter("bogus"), []string{"dec", "jan5", "jan5-b", "feb", "nodate-1", "nodate-2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			items := Render(fixture(), "", tt.filter)
			if got := ids(items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
			for _, it := range items {
				if tt.filter == FilterPending && it.Done {
					t.Errorf("pending filter kept done task %s", it.ID)
				}
				if tt.filter == FilterDone && !it.Done {
					t.Errorf("done filter kept pending task %s", it.ID)
				}
			}
		})
	}
}

func TestSearchLaw(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "", []string{"dec", "jan5", "jan5-b", "feb", "nodate-1", "nodate-2"}},
		{"blank", "   ", []string{"dec", "jan5", "jan5-b", "feb", "nodate-1", "nodate-2"}},
		{"case insensitive title", "milk", []string{"jan5", "jan5-b"}},
		{"description", "SCI-FI", []string{"nodate-1"}},
		{"trimmed", "  dentist ", []string{"feb"}},
		{"no match", "zebra", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Render(fixture(), tt.query, FilterAll)
			if got := ids(items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
			q := strings.ToLower(strings.TrimSpace(tt.query))
			for _, it := range items {
				combined := strings.ToLower(it.Title + " " + it.Description)
				if !strings.Contains(combined, q) {
					t.Errorf("item %s does not contain %q", it.ID, q)
				}
			}
		})
	}
}

func TestRenderCombinesFilterAndSearch(t *testing.T) {
	got := ids(Render(fixture(), "milk", FilterPending))
	if !reflect.DeepEqual(got, []string{"jan5-b"}) {
		t.Errorf("ids = %v", got)
	}
}

func TestRenderIsIdempotentAndPure(t *testing.T) {
	tasks := fixture()
	before := append([]task.Task(nil), tasks...)

	first := Render(tasks, "m", FilterAll)
	second := Render(tasks, "m", FilterAll)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("render not idempotent:\n%v\n%v", first, second)
	}
	if !reflect.DeepEqual(tasks, before) {
		t.Error("Render modified its input")
	}
}

func TestRenderDateLabels(t *testing.T) {
	items := Render([]task.Task{
		{ID: "a", Title: "Buy milk", Date: "2024-01-10"},
		{ID: "b", Title: "Someday"},
	}, "", FilterAll)
	if items[0].DateLabel != "10/01/2024" {
		t.Errorf("DateLabel = %q, want 10/01/2024", items[0].DateLabel)
	}
	if items[1].DateLabel != NoDateLabel {
		t.Errorf("DateLabel = %q, want %q", items[1].DateLabel, NoDateLabel)
	}
}

func TestRenderEmpty(t *testing.T) {
	items := Render(nil, "", FilterAll)
	if items == nil || len(items) != 0 {
		t.Errorf("Render(nil) = %#v, want empty slice", items)
	}
}

func TestParseFilter(t *testing.T) {
	tests := map[string]Filter{
		"":         FilterAll,
		"all":      FilterAll,
		"pending":  FilterPending,
		" DONE ":   FilterDone,
		"finished": FilterAll,
	}
	for in, want := range tests {
		if got := ParseFilter(in); got != want {
			t.Errorf("ParseFilter(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterNext(t *testing.T) {
	if FilterAll.Next() != FilterPending || FilterPending.Next() != FilterDone || FilterDone.Next() != FilterAll {
		t.Error("Next does not cycle all -> pending -> done -> all")
	}
	if Filter("x").Next() != FilterAll {
		t.Error("unknown filter should reset to all")
	}
}
