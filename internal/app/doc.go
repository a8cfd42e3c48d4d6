// Package app holds the task list's application state and operations.
//
// An App owns the in-memory collection, the pending-edit marker, the input
// form, the search text and the filter selection. Every operation that
// changes the collection persists the full collection and then asks the host
// to render a new Frame. Operations that only change transient state (search,
// filter, begin or cancel edit) render without persisting.
//
// The host supplies three capabilities: rendering a Frame, asking a yes/no
// question, and showing a message. The TUI and the CLI each implement Host.
//
// An App is not safe for concurrent use; hosts call it from a single
// goroutine.
package app
