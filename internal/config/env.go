package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envVars maps environment variable names to config field names.
var envVars = []struct {
	name  string
	field string
}{
	{"TASKLIST_BACKEND", "backend"},
	{"TASKLIST_DATA_DIR", "data_dir"},
	{"TASKLIST_KEY", "storage_key"},
	{"TASKLIST_SCHEMA", "schema_file"},
	{"TASKLIST_LOG_DIR", "log_dir"},
	{"TASKLIST_LOG_LEVEL", "log_level"},
	{"TASKLIST_LOG_FORMAT", "log_format"},
	{"TASKLIST_LOG_TIMESTAMPS", "log_timestamps"},
	{"TASKLIST_LOG_CALLER", "log_caller"},
	{"TASKLIST_FILTER", "default_filter"},
}

// readDotEnv parses a .env file. A missing file yields no values.
// The process environment is left untouched.
func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return values, err
}

// loadFromEnv overrides config from TASKLIST_* variables. Variables set in
// the process environment win over those from .env.
func loadFromEnv(cws *ConfigWithSources, dotenv map[string]string) {
	cfg := cws.Config
	for _, v := range envVars {
		value, source := os.Getenv(v.name), SourceEnv
		if value == "" {
			value, source = dotenv[v.name], SourceDotEnv
		}
		if value == "" {
			continue
		}

		switch v.field {
		case "backend":
			cfg.Backend = value
		case "data_dir":
			cfg.DataDir = value
		case "storage_key":
			cfg.StorageKey = value
		case "schema_file":
			cfg.SchemaFile = value
		case "log_dir":
			cfg.LogDir = value
		case "log_level":
			cfg.LogLevel = value
		case "log_format":
			cfg.LogFormat = value
		case "log_timestamps":
			cfg.LogTimestamps = boolFromString(value)
		case "log_caller":
			cfg.LogCaller = boolFromString(value)
		case "default_filter":
			cfg.DefaultFilter = value
		}
		cws.Sources[v.field] = source
	}
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
