// Package datadir provides constants and helpers for the tasklist data directory.
package datadir

import "path/filepath"

const (
	// Dir is the name of the per-user data directory under $HOME.
	Dir = ".tasklist"

	// AppName names the directory inside OS-specific config locations.
	AppName = "tasklist"

	// DefaultConfigFile is the config file name inside Dir.
	DefaultConfigFile = "tasklist.toml"

	// HiddenConfigFile is the alternative project-level config name.
	HiddenConfigFile = ".tasklist.toml"

	// DefaultLogDir is the log directory name inside the data directory.
	DefaultLogDir = "logs"

	// DotEnvFile is read from the project root for TASKLIST_* variables.
	DotEnvFile = ".env"
)

// DirPath returns the data directory inside home.
func DirPath(home string) string {
	if home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// ConfigPath returns the user config file inside home.
func ConfigPath(home string) string {
	return filepath.Join(DirPath(home), DefaultConfigFile)
}

// LogPath returns the log directory inside a data directory.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, DefaultLogDir)
}

// ProjectConfigNames returns the project-level config names in lookup order.
func ProjectConfigNames() []string {
	return []string{DefaultConfigFile, HiddenConfigFile}
}
