package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/task"
)

// DefaultKey is the slot holding the task blob. It is kept stable so data
// written by earlier versions keeps loading.
const DefaultKey = "todolist_tasks_v1"

// Store reads and writes the whole task collection as one JSON array.
type Store struct {
	kv     KV
	key    string
	logger *log.Logger
}

// NewStore returns a Store over kv. An empty key selects DefaultKey and a nil
// logger discards output.
func NewStore(kv KV, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{kv: kv, key: key, logger: logger}
}

// Key returns the slot name.
func (s *Store) Key() string {
	return s.key
}

// Load returns the persisted collection. A missing, unreadable or malformed
// blob yields an empty collection; failures are logged, never returned.
// Entries repeating an earlier id are dropped.
func (s *Store) Load() []task.Task {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Error("failed to read stored tasks", "key", s.key, "err", err)
		return []task.Task{}
	}
	if !ok || raw == "" {
		s.logger.Debug("no stored tasks", "key", s.key)
		return []task.Task{}
	}

	var tasks []task.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		s.logger.Error("failed to parse stored tasks", "key", s.key, "err", err)
		return []task.Task{}
	}
	if tasks == nil {
		return []task.Task{}
	}

	tasks, dropped := task.Dedupe(tasks)
	if len(dropped) > 0 {
		s.logger.Warn("dropped tasks with duplicate ids", "key", s.key, "ids", dropped)
	}
	s.logger.Debug("loaded tasks", "key", s.key, "count", len(tasks))
	return tasks
}

// Save overwrites the persisted blob with tasks.
func (s *Store) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.logger.Debug("saved tasks", "key", s.key, "count", len(tasks))
	return nil
}

// Raw returns the stored blob as is, for diagnostics.
func (s *Store) Raw() (string, bool, error) {
	return s.kv.Get(s.key)
}
