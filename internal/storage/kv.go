// Package storage persists the task collection in a single key-value slot.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// KV is a string key-value store holding serialized blobs.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set overwrites the value for key.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Close releases resources held by the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Default file names inside the data directory.
const (
	DefaultFileName   = "tasks.json"
	DefaultSQLiteName = "tasks.db"
)

// ErrUnknownBackend is returned by Open for unrecognized backend names.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Options selects and locates a KV backend.
type Options struct {
	Backend string // file, sqlite or memory
	Dir     string // data directory for file-backed stores
}

// Backends returns the accepted backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// NormalizeBackend lowercases and trims a backend name. Empty means file.
func NormalizeBackend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return BackendFile
	}
	return name
}

// Path returns the on-disk location of the store, or "" for memory.
func (o Options) Path() string {
	switch NormalizeBackend(o.Backend) {
	case BackendFile:
		return filepath.Join(o.Dir, DefaultFileName)
	case BackendSQLite:
		return filepath.Join(o.Dir, DefaultSQLiteName)
	default:
		return ""
	}
}

// Open opens the backend described by opts.
func Open(opts Options) (KV, error) {
	switch backend := NormalizeBackend(opts.Backend); backend {
	case BackendFile:
		return OpenFile(opts.Path())
	case BackendSQLite:
		return OpenSQLite(opts.Path())
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w %q (want one of: %s)", ErrUnknownBackend, backend, strings.Join(Backends(), ", "))
	}
}
