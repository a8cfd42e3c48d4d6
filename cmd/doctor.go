package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/task"
)

// doctorCommand checks the config, the storage backend and the stored blob.
func (c *cli) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist doctor", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := c.stdout
	fmt.Fprintln(w, "tasklist doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if file := c.cws.ConfigFile(); file != "" {
		fmt.Fprintf(w, "  File: %s\n", file)
	} else {
		fmt.Fprintln(w, "  File: (none, using defaults)")
	}
	for _, warning := range c.cws.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	fmt.Fprintf(w, "  ✅ Backend: %s\n", c.cfg.Backend)
	fmt.Fprintf(w, "  ✅ Storage key: %s\n", c.cfg.StorageKey)
	if *verbose {
		c.printSources()
	}
	fmt.Fprintln(w)

	opts := c.cfg.StorageOptions()
	if path := opts.Path(); path != "" {
		fmt.Fprintf(w, "Storage: %s\n", path)
	} else {
		fmt.Fprintln(w, "Storage: (in memory)")
	}
	kv, err := storage.Open(opts)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n\n", err)
		return errors.New("doctor checks failed")
	}
	defer kv.Close()
	fmt.Fprintln(w, "  ✅ OK")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Stored tasks (%s):\n", c.cfg.StorageKey)
	raw, ok, err := kv.Get(c.cfg.StorageKey)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		allOK = false
	case !ok || raw == "":
		fmt.Fprintln(w, "  ⚠️  Nothing saved yet")
	default:
		result := task.ValidateBlob([]byte(raw), task.ValidationOptions{SchemaPath: c.cfg.SchemaFile})
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.Valid {
			fmt.Fprintf(w, "  ✅ Valid (%d tasks)\n", result.Tasks)
		} else {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		}
		if *verbose {
			schema := "embedded"
			if c.cfg.SchemaFile != "" {
				schema = c.cfg.SchemaFile
			}
			if !result.UsedSchema {
				schema = "none (minimal checks)"
			}
			fmt.Fprintf(w, "  Schema: %s\n", schema)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Log directory: %s\n", c.cfg.LogDir)
	if info, err := os.Stat(c.cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (created when the TUI first runs)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return errors.New("doctor checks failed")
}

// configCommand prints the resolved configuration, or an example file.
func (c *cli) configCommand(args []string) error {
	fs := flag.NewFlagSet("tasklist config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(c.stdout, config.ExampleConfig())
		return nil
	}
	c.printSources()
	return nil
}

func (c *cli) printSources() {
	cfg := c.cfg
	values := []struct {
		field string
		value any
	}{
		{"backend", cfg.Backend},
		{"data_dir", cfg.DataDir},
		{"storage_key", cfg.StorageKey},
		{"schema_file", cfg.SchemaFile},
		{"log_dir", cfg.LogDir},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
		{"default_filter", cfg.DefaultFilter},
	}
	for _, v := range values {
		fmt.Fprintf(c.stdout, "  %-15s = %-40v (%s)\n", v.field, v.value, c.cws.Sources[v.field])
	}
}
