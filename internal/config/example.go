package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by TASKLIST_* environment variables, a .env file
# in the working directory, or CLI flags.

# Storage backend: file, sqlite or memory
backend = "file"

# Data directory (supports ~ expansion and $VAR)
data_dir = "~/.tasklist"

# Key holding the task list. Use different keys to keep separate lists.
storage_key = "todolist_tasks_v1"

# Schema used by "tasklist doctor" (default: embedded)
# schema_file = "tasks.schema.json"

# Log directory (default: <data_dir>/logs)
# log_dir = "~/.tasklist/logs"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

# Filter shown on start: all, pending or done
default_filter = "all"
`
}
