// FILE: pathfinder/src/internal/format/raw.go
package format

import (
	"pathfinder/src/internal/config"
	"pathfinder/src/internal/core"

	"github.com/lixenwraith/log"
)

// Outputs the entry body as-is with a newline
type RawFormatter struct {
	logger *log.Logger
}

// Creates a new raw formatter
func NewRawFormatter(opts *config.FormatConfig, logger *log.Logger) (*RawFormatter, error) {
	return &RawFormatter{
		logger: logger,
	}, nil
}

// Returns the body with a newline appended
func (f *RawFormatter) Format(entry core.LogEntry) ([]byte, error) {
	return append([]byte(entry.Body), '\n'), nil
}

// Returns the formatter name
func (f *RawFormatter) Name() string {
	return "raw"
}
