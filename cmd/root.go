// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/app"
	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// cli carries the resolved configuration and I/O streams of one invocation.
type cli struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	c := &cli{
		cws:    cws,
		cfg:    cws.Config,
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
	}
	c.logger = logging.New(stderr, c.consoleLogOptions())
	for _, w := range cws.Warnings {
		c.logger.Warn(w)
	}

	// Without a subcommand, open the TUI on a terminal and list otherwise.
	subcommand := "ls"
	if ui.IsTTY(stdout) {
		subcommand = "tui"
	}
	remaining := fs.Args()
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		subcommand = remaining[0]
		remaining = remaining[1:]
	}

	switch subcommand {
	case "tui":
		return c.tuiCommand(ctx, remaining)
	case "add":
		return c.addCommand(remaining)
	case "ls", "list":
		return c.lsCommand(remaining)
	case "done", "toggle":
		return c.doneCommand(remaining)
	case "edit":
		return c.editCommand(remaining)
	case "rm", "delete":
		return c.rmCommand(remaining)
	case "clear":
		return c.clearCommand(remaining)
	case "doctor":
		return c.doctorCommand(remaining)
	case "log", "tail":
		return c.logCommand(ctx, remaining)
	case "config":
		return c.configCommand(remaining)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// consoleLogOptions keeps stderr quiet unless a level was configured;
// command output already reports what changed.
func (c *cli) consoleLogOptions() logging.Options {
	opts := c.logOptions()
	if c.cws.Sources["log_level"] == config.SourceDefault {
		opts.Level = "warn"
	}
	return opts
}

func (c *cli) logOptions() logging.Options {
	return logging.Options{
		Level:      c.cfg.LogLevel,
		Format:     c.cfg.LogFormat,
		Timestamps: c.cfg.LogTimestamps,
		Caller:     c.cfg.LogCaller,
		Prefix:     logging.DefaultPrefix,
	}
}

// openStore opens the configured backend. The returned func closes it.
func (c *cli) openStore(logger *log.Logger) (*storage.Store, func(), error) {
	kv, err := storage.Open(c.cfg.StorageOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", c.cfg.Backend, err)
	}
	closeFn := func() {
		if err := kv.Close(); err != nil {
			logger.Warn("failed to close storage", "err", err)
		}
	}
	return storage.NewStore(kv, c.cfg.StorageKey, logger), closeFn, nil
}

// openApp opens storage and loads the collection behind a console host.
func (c *cli) openApp(assumeYes bool) (*app.App, func(), error) {
	store, closeFn, err := c.openStore(c.logger)
	if err != nil {
		return nil, nil, err
	}
	host := &consoleHost{in: c.stdin, out: c.stderr, assumeYes: assumeYes}
	a := app.New(store, host, app.WithLogger(c.logger), app.WithFilter(c.cfg.Filter()))
	a.Load()
	return a, closeFn, nil
}

// tuiCommand launches the TUI. Its logs go to a session file because the
// TUI owns the terminal.
func (c *cli) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasklist tui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	session, err := logging.NewSessionLogger(c.cfg.LogDir, c.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("creating session log: %w", err)
	}
	defer session.Close()
	logger := logging.New(session.Writer(), c.logOptions())
	logger.Info("session started", "backend", c.cfg.Backend, "key", c.cfg.StorageKey)

	store, closeFn, err := c.openStore(logger)
	if err != nil {
		return err
	}
	defer closeFn()

	err = ui.Run(ctx, store, ui.Options{Filter: c.cfg.Filter(), Logger: logger})
	if err != nil {
		logger.Error("session ended with error", "err", err)
	} else {
		logger.Info("session ended")
	}
	return err
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasklist version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - a small personal task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                     Interactive terminal UI (default on a terminal)")
	fmt.Fprintln(w, "  add [-date D] [-desc S] [-title] TITLE")
	fmt.Fprintln(w, "                          Add a task")
	fmt.Fprintln(w, "  ls [-filter F] [-q Q] [-v] [-json]")
	fmt.Fprintln(w, "                          List tasks sorted by date (default otherwise)")
	fmt.Fprintln(w, "  done ID                 Toggle a task between pending and done")
	fmt.Fprintln(w, "  edit ID [-title T] [-date D] [-desc S]")
	fmt.Fprintln(w, "                          Change a task")
	fmt.Fprintln(w, "  rm [-y] ID              Delete a task")
	fmt.Fprintln(w, "  clear [-y]              Delete all tasks")
	fmt.Fprintln(w, "  doctor                  Check config and stored data")
	fmt.Fprintln(w, "  log [-n N] [-f]         Show the latest TUI session log")
	fmt.Fprintln(w, "  config [-example]       Show resolved config and where each value came from")
	fmt.Fprintln(w, "  version                 Show version information")
	fmt.Fprintln(w, "  help                    Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "IDs may be shortened to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
