package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/nibzard/tasklist/internal/logging"
)

// logCommand prints the latest TUI session log.
func (c *cli) logCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasklist log", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(c.cfg.LogDir, c.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(c.stdout, "No session logs found.")
		return nil
	}

	fmt.Fprintf(c.stderr, "Showing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(c.stderr, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, c.stdout, logPath, *n, *follow)
}
