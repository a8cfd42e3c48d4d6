package config

import (
	"flag"
	"strings"

	"github.com/nibzard/tasklist/internal/storage"
)

// flagFields maps global flag names to config field names.
var flagFields = map[string]string{
	"backend":        "backend",
	"data-dir":       "data_dir",
	"key":            "storage_key",
	"schema":         "schema_file",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"filter":         "default_filter",
}

// parseFlags defines the global flags on fs and parses args. Remaining
// arguments are available from fs.Args.
func parseFlags(cws *ConfigWithSources, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}
	cfg := cws.Config

	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend ("+strings.Join(storage.Backends(), ", ")+")")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key holding the task list")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Schema file used by doctor (default: embedded)")

	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory (default: <data-dir>/logs)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	fs.StringVar(&cfg.DefaultFilter, "filter", cfg.DefaultFilter, "Initial filter (all, pending, done)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			cws.Sources[field] = SourceFlag
		}
	})
	return nil
}
