package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/view"
)

// isolate points HOME and the XDG config dir at empty temp dirs, clears
// TASKLIST_* variables and changes into a fresh working directory.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, v := range envVars {
		t.Setenv(v.name, "")
	}
	testChdir(t, project)
	return home, project
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	home, project := isolate(t)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Backend != storage.BackendFile {
		t.Errorf("Backend: got %q, want file", cfg.Backend)
	}
	if want := filepath.Join(home, ".tasklist"); cfg.DataDir != want {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, want)
	}
	if want := filepath.Join(home, ".tasklist", "logs"); cfg.LogDir != want {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, want)
	}
	if cfg.StorageKey != storage.DefaultKey {
		t.Errorf("StorageKey: got %q, want %q", cfg.StorageKey, storage.DefaultKey)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Filter() != view.FilterAll {
		t.Errorf("Filter: got %q, want all", cfg.Filter())
	}
	if cfg.SchemaFile != "" {
		t.Errorf("SchemaFile: got %q, want empty", cfg.SchemaFile)
	}
	if resolved, _ := filepath.EvalSymlinks(cfg.ProjectRoot); resolved != mustEval(t, project) {
		t.Errorf("ProjectRoot: got %q, want %q", cfg.ProjectRoot, project)
	}
}

func mustEval(t *testing.T, p string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}

func TestLoadPriority(t *testing.T) {
	home, _ := isolate(t)

	writeFile(t, filepath.Join(home, ".tasklist", "tasklist.toml"), `
backend = "sqlite"
storage_key = "user-key"
log_level = "debug"
default_filter = "done"
`)
	writeFile(t, "tasklist.toml", `
storage_key = "project-key"
log_format = "json"
`)
	writeFile(t, ".env", "TASKLIST_LOG_FORMAT=logfmt\nTASKLIST_FILTER=pending\n")
	t.Setenv("TASKLIST_FILTER", "all")

	cws, err := LoadWithSources(newFlagSet(), []string{"-log-level", "warn"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"backend", cfg.Backend, "sqlite", SourceUserFile},
		{"storage_key", cfg.StorageKey, "project-key", SourceProjFile},
		{"log_format", cfg.LogFormat, "logfmt", SourceDotEnv},
		{"default_filter", cfg.DefaultFilter, "all", SourceEnv},
		{"log_level", cfg.LogLevel, "warn", SourceFlag},
		{"data_dir", cfg.DataDir, filepath.Join(home, ".tasklist"), SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("value: got %q, want %q", tt.got, tt.want)
			}
			if cws.Sources[tt.field] != tt.source {
				t.Errorf("source: got %q, want %q", cws.Sources[tt.field], tt.source)
			}
		})
	}

	if len(cws.Files) != 2 || cws.ConfigFile() != "tasklist.toml" {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestDotEnvDoesNotTouchProcessEnv(t *testing.T) {
	isolate(t)
	writeFile(t, ".env", "TASKLIST_KEY=from-dotenv\n")

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageKey != "from-dotenv" {
		t.Errorf("StorageKey: got %q, want from-dotenv", cfg.StorageKey)
	}
	if v := os.Getenv("TASKLIST_KEY"); v != "" {
		t.Errorf("TASKLIST_KEY leaked into the environment: %q", v)
	}
}

func TestHiddenProjectConfig(t *testing.T) {
	isolate(t)
	writeFile(t, ".tasklist.toml", `backend = "memory"`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != storage.BackendMemory {
		t.Errorf("Backend: got %q, want memory", cfg.Backend)
	}
}

func TestXDGUserConfig(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "tasklist", "tasklist.toml"), `storage_key = "xdg"`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageKey != "xdg" {
		t.Errorf("StorageKey: got %q, want xdg", cfg.StorageKey)
	}
}

func TestUnknownKeysAreWarnings(t *testing.T) {
	isolate(t)
	writeFile(t, "tasklist.toml", "backend = \"file\"\nmax_iterations = 3\n")

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cws.Warnings) != 1 || !strings.Contains(cws.Warnings[0], "max_iterations") {
		t.Errorf("Warnings: got %v", cws.Warnings)
	}
}

func TestInvalidConfigFile(t *testing.T) {
	isolate(t)
	writeFile(t, "tasklist.toml", "backend = \n")

	if _, err := Load(newFlagSet(), nil); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}

func TestUnknownBackend(t *testing.T) {
	isolate(t)
	_, err := Load(newFlagSet(), []string{"-backend", "redis"})
	if !errors.Is(err, storage.ErrUnknownBackend) {
		t.Fatalf("Load error: got %v, want ErrUnknownBackend", err)
	}
}

func TestFinalizeConfig(t *testing.T) {
	home, _ := isolate(t)
	t.Setenv("TASKLIST_TEST_DIR", "custom")

	cfg := &Config{}
	setDefaults(cfg)
	cfg.ProjectRoot = filepath.Join(string(filepath.Separator), "proj")
	cfg.Backend = " SQLite "
	cfg.DataDir = "$TASKLIST_TEST_DIR/data"
	cfg.LogDir = "~/logs"
	cfg.SchemaFile = "schema.json"
	cfg.StorageKey = "  "
	cfg.DefaultFilter = "bogus"
	cfg.LogLevel = " DEBUG "

	if err := finalizeConfig(cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Backend != "sqlite" {
		t.Errorf("Backend: got %q", cfg.Backend)
	}
	if want := filepath.Join(cfg.ProjectRoot, "custom", "data"); cfg.DataDir != want {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, want)
	}
	if want := filepath.Join(home, "logs"); cfg.LogDir != want {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, want)
	}
	if want := filepath.Join(cfg.ProjectRoot, "schema.json"); cfg.SchemaFile != want {
		t.Errorf("SchemaFile: got %q, want %q", cfg.SchemaFile, want)
	}
	if cfg.StorageKey != storage.DefaultKey {
		t.Errorf("StorageKey: got %q", cfg.StorageKey)
	}
	if cfg.DefaultFilter != "all" {
		t.Errorf("DefaultFilter: got %q", cfg.DefaultFilter)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
}

func TestRemainingArgs(t *testing.T) {
	isolate(t)
	fs := newFlagSet()
	if _, err := Load(fs, []string{"-backend", "memory", "add", "-title", "x"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(fs.Args(), " "); got != "add -title x" {
		t.Errorf("Args: got %q", got)
	}
}

func TestStorageOptions(t *testing.T) {
	cfg := &Config{Backend: "sqlite", DataDir: "/data"}
	opts := cfg.StorageOptions()
	if opts.Backend != "sqlite" || opts.Dir != "/data" {
		t.Errorf("StorageOptions: got %+v", opts)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TASKLIST_X", "value")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/a/b", filepath.Join(home, "a", "b")},
		{"$TASKLIST_X/dir", "value/dir"},
		{"plain", "plain"},
		{"a~b", "a~b"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", " on "} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q): got false", s)
		}
	}
	for _, s := range []string{"0", "false", "no", "maybe"} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q): got true", s)
		}
	}
}

func TestExampleConfigParses(t *testing.T) {
	isolate(t)
	writeFile(t, "tasklist.toml", ExampleConfig())

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if len(cws.Warnings) != 0 {
		t.Errorf("example config has unknown keys: %v", cws.Warnings)
	}
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it
// changes the working directory and restores it when the test ends.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd %s: %v", prev, err)
		}
	})
}
