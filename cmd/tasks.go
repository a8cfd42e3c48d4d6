package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/tasklist/internal/app"
	"github.com/nibzard/tasklist/internal/task"
	"github.com/nibzard/tasklist/internal/utils"
	"github.com/nibzard/tasklist/internal/view"
)

const shortIDLen = 8

// addCommand adds one task. The title comes from -title or the remaining words.
func (c *cli) addCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist add", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	title := fs.String("title", "", "Task title")
	date := fs.String("date", "", "Due date (YYYY-MM-DD)")
	desc := fs.String("desc", "", "Description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" {
		*title = strings.Join(fs.Args(), " ")
	} else if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, closeFn, err := c.openApp(false)
	if err != nil {
		return err
	}
	defer closeFn()

	a.SetForm(task.Draft{Title: *title, Date: *date, Description: *desc})
	if err := a.Submit(); err != nil {
		return err
	}
	tasks := a.Tasks()
	added := tasks[len(tasks)-1]
	fmt.Fprintf(c.stdout, "Added %s %s\n", utils.ShortID(added.ID, shortIDLen), added.Title)
	return nil
}

// lsCommand prints the rendered view.
func (c *cli) lsCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist ls", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	filter := fs.String("filter", c.cfg.DefaultFilter, "Filter (all, pending, done)")
	query := fs.String("q", "", "Search title and description")
	verbose := fs.Bool("v", false, "Show full ids, descriptions and creation times")
	asJSON := fs.Bool("json", false, "Print matching tasks as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	// A bare word is shorthand for -filter.
	if fs.NArg() == 1 && *filter == c.cfg.DefaultFilter {
		*filter = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, closeFn, err := c.openApp(false)
	if err != nil {
		return err
	}
	defer closeFn()

	a.SetFilter(view.Filter(*filter))
	a.SetQuery(*query)
	frame := a.Frame()

	if *asJSON {
		out := make([]task.Task, 0, len(frame.Rows))
		for _, row := range frame.Rows {
			if t, ok := a.Lookup(row.ID); ok {
				out = append(out, t)
			}
		}
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(frame.Rows) == 0 {
		if frame.Counts.Total == 0 {
			fmt.Fprintln(c.stdout, "No tasks.")
		} else {
			fmt.Fprintln(c.stdout, "No matching tasks.")
		}
		return nil
	}
	for _, row := range frame.Rows {
		c.printRow(a, row, *verbose)
	}
	fmt.Fprintf(c.stdout, "\n%d shown, %d total (%d pending, %d done)\n",
		len(frame.Rows), frame.Counts.Total, frame.Counts.Pending, frame.Counts.Done)
	return nil
}

func (c *cli) printRow(a *app.App, row app.Row, verbose bool) {
	box := "[ ]"
	if row.Done {
		box = "[x]"
	}
	id := utils.ShortID(row.ID, shortIDLen)
	if verbose {
		id = row.ID
	}
	fmt.Fprintf(c.stdout, "%s %s  %-10s  %s\n", box, id, row.DateLabel, row.Title)
	if !verbose {
		return
	}
	if row.Description != "" {
		fmt.Fprintf(c.stdout, "      %s\n", row.Description)
	}
	if t, ok := a.Lookup(row.ID); ok && t.CreatedAt != "" {
		fmt.Fprintf(c.stdout, "      created %s\n", t.CreatedAt)
	}
}

// doneCommand toggles the done flag.
func (c *cli) doneCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist done", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	ref, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	a, closeFn, err := c.openApp(false)
	if err != nil {
		return err
	}
	defer closeFn()

	id, err := a.Resolve(ref)
	if err != nil {
		return err
	}
	if err := a.ToggleDone(id); err != nil {
		return err
	}
	t, _ := a.Lookup(id)
	state := "pending"
	if t.Done {
		state = "done"
	}
	fmt.Fprintf(c.stdout, "Marked %s %s: %s\n", utils.ShortID(id, shortIDLen), state, t.Title)
	return nil
}

// editCommand overwrites the fields given as flags and keeps the rest.
func (c *cli) editCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist edit", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	title := fs.String("title", "", "New title")
	date := fs.String("date", "", "New date (YYYY-MM-DD, empty to clear)")
	desc := fs.String("desc", "", "New description")
	ref, err := parseWithID(fs, args)
	if err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return errors.New("nothing to change: pass -title, -date or -desc")
	}

	a, closeFn, err := c.openApp(false)
	if err != nil {
		return err
	}
	defer closeFn()

	id, err := a.Resolve(ref)
	if err != nil {
		return err
	}
	current, _ := a.Lookup(id)
	d := task.DraftOf(current)
	if set["title"] {
		d.Title = *title
	}
	if set["date"] {
		d.Date = *date
	}
	if set["desc"] {
		d.Description = *desc
	}
	if err := a.Edit(id, d); err != nil {
		return err
	}
	updated, _ := a.Lookup(id)
	fmt.Fprintf(c.stdout, "Updated %s %s\n", utils.ShortID(id, shortIDLen), updated.Title)
	return nil
}

// rmCommand deletes one task after confirmation.
func (c *cli) rmCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist rm", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	yes := fs.Bool("y", false, "Do not ask for confirmation")
	ref, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	a, closeFn, err := c.openApp(*yes)
	if err != nil {
		return err
	}
	defer closeFn()

	id, err := a.Resolve(ref)
	if err != nil {
		return err
	}
	if err := a.Delete(id); err != nil {
		return err
	}
	if _, still := a.Lookup(id); still {
		fmt.Fprintln(c.stdout, "Cancelled.")
		return nil
	}
	fmt.Fprintf(c.stdout, "Deleted %s\n", utils.ShortID(id, shortIDLen))
	return nil
}

// clearCommand deletes every task after confirmation.
func (c *cli) clearCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist clear", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	yes := fs.Bool("y", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, closeFn, err := c.openApp(*yes)
	if err != nil {
		return err
	}
	defer closeFn()

	before := len(a.Tasks())
	if before == 0 {
		fmt.Fprintln(c.stdout, "No tasks.")
		return nil
	}
	if err := a.ClearAll(); err != nil {
		return err
	}
	if len(a.Tasks()) != 0 {
		fmt.Fprintln(c.stdout, "Cancelled.")
		return nil
	}
	fmt.Fprintf(c.stdout, "Deleted %d tasks\n", before)
	return nil
}

// parseWithID parses fs and extracts a single task id, which may come
// before or after the flags.
func parseWithID(fs *flag.FlagSet, args []string) (string, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	rest := fs.Args()
	if id == "" && len(rest) > 0 {
		id, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		return "", fmt.Errorf("unexpected arguments: %v", rest)
	}
	if id == "" {
		return "", errors.New("missing task id")
	}
	return id, nil
}
