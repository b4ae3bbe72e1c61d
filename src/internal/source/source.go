// FILE: pathfinder/src/internal/source/source.go
package source

import (
	"time"
)

// Source yields raw lines in input order. ReadLine returns io.EOF once the
// input is exhausted.
type Source interface {
	// Returns the next line, trailing newline included
	ReadLine() (string, error)

	// Releases the underlying input
	Close() error

	// Returns source statistics
	GetStats() SourceStats
}

// SourceStats contains statistics about a source
type SourceStats struct {
	Type         string
	Path         string
	LinesRead    uint64
	BytesRead    uint64
	StartTime    time.Time
	LastReadTime time.Time
}
