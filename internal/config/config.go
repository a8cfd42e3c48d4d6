package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasklist/internal/datadir"
	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/view"
)

// Default values.
const (
	DefaultBackend   = storage.BackendFile
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// DefaultDataDir is the data directory before ~ expansion.
var DefaultDataDir = "~/" + datadir.Dir

// Config holds the resolved application configuration.
type Config struct {
	// Storage
	Backend    string `toml:"backend"`
	DataDir    string `toml:"data_dir"`
	StorageKey string `toml:"storage_key"`

	// Schema override used by doctor. Empty means the embedded schema.
	SchemaFile string `toml:"schema_file"`

	// Logging
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// View
	DefaultFilter string `toml:"default_filter"`

	// Derived
	ProjectRoot string `toml:"-"`
}

// ConfigSource identifies where a value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user config"
	SourceProjFile ConfigSource = "project config"
	SourceDotEnv   ConfigSource = ".env"
	SourceEnv      ConfigSource = "env"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources pairs a Config with the origin of each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
	// Warnings holds non-fatal problems such as unknown keys.
	Warnings []string
}

// StorageOptions returns the storage backend selection.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{Backend: c.Backend, Dir: c.DataDir}
}

// Filter returns the configured initial filter.
func (c *Config) Filter() view.Filter {
	return view.ParseFilter(c.DefaultFilter)
}

// Load loads configuration from defaults, config files, the environment
// and flags, in that order.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	cws := &ConfigWithSources{Config: cfg, Sources: make(map[string]ConfigSource)}

	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cws, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cws, path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	dotenv, err := readDotEnv(datadir.DotEnvFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", datadir.DotEnvFile, err)
	}
	loadFromEnv(cws, dotenv)

	if err := parseFlags(cws, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cws, nil
}

// configFields returns the configurable field names for source tracking.
func configFields() []string {
	return []string{
		"backend",
		"data_dir",
		"storage_key",
		"schema_file",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"default_filter",
	}
}

func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.DataDir = DefaultDataDir
	cfg.StorageKey = storage.DefaultKey
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.DefaultFilter = string(view.FilterAll)
}

// loadConfigFile decodes a TOML file over cfg. Only keys present in the file
// change their recorded source.
func loadConfigFile(cws *ConfigWithSources, path string, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cws.Config)
	if err != nil {
		return err
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			cws.Sources[field] = source
		}
	}
	for _, key := range md.Undecoded() {
		cws.Warnings = append(cws.Warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	cws.Files = append(cws.Files, path)
	return nil
}

// finalizeConfig normalizes values, expands paths and computes derived fields.
func finalizeConfig(cfg *Config) error {
	cfg.Backend = storage.NormalizeBackend(cfg.Backend)
	if !slices.Contains(storage.Backends(), cfg.Backend) {
		return fmt.Errorf("%w %q (want one of: %s)", storage.ErrUnknownBackend, cfg.Backend, strings.Join(storage.Backends(), ", "))
	}

	if strings.TrimSpace(cfg.StorageKey) == "" {
		cfg.StorageKey = storage.DefaultKey
	}
	cfg.DefaultFilter = string(view.ParseFilter(cfg.DefaultFilter))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.DataDir = absPath(cfg.ProjectRoot, expandPath(cfg.DataDir))
	if cfg.LogDir == "" {
		cfg.LogDir = datadir.LogPath(cfg.DataDir)
	} else {
		cfg.LogDir = absPath(cfg.ProjectRoot, expandPath(cfg.LogDir))
	}
	if cfg.SchemaFile != "" {
		cfg.SchemaFile = absPath(cfg.ProjectRoot, expandPath(cfg.SchemaFile))
	}
	return nil
}

func absPath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
