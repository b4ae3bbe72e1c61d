// FILE: pathfinder/src/internal/core/entry.go
package core

import "time"

// LogEntry is a single dated record read from the playback source.
// Body holds the raw line, trailing newline included.
type LogEntry struct {
	Time time.Time
	Body string
	Host string
}

// WithBody returns a copy of the entry carrying a different body.
func (e LogEntry) WithBody(body string) LogEntry {
	e.Body = body
	return e
}
