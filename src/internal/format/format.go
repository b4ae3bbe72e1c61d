// FILE: pathfinder/src/internal/format/format.go
package format

import (
	"fmt"
	"strings"

	"pathfinder/src/internal/config"
	"pathfinder/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for transforming a LogEntry into a wire payload.
type Formatter interface {
	// Format takes a LogEntry and returns one newline-terminated payload.
	Format(entry core.LogEntry) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// New creates a new Formatter based on the provided configuration.
func New(opts *config.FormatConfig, logger *log.Logger) (Formatter, error) {
	if opts == nil {
		opts = &config.FormatConfig{}
	}

	switch opts.Type {
	case "json", "":
		return NewJSONFormatter(opts, logger)
	case "raw":
		return NewRawFormatter(opts, logger)
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", opts.Type)
	}
}

// EscapeNewlines replaces every literal newline in body with separator so a
// multi-line body cannot be split across frames.
func EscapeNewlines(body, separator string) string {
	if separator == "" {
		separator = core.NewlineSeparator
	}
	return strings.ReplaceAll(body, "\n", separator)
}

// HostName returns the key an entry is published under: its own host, or
// defaultHost when it has none, with dots replaced by dashes.
func HostName(host, defaultHost string) string {
	if host == "" {
		host = defaultHost
	}
	if host == "" {
		host = core.DefaultHost
	}
	return strings.ReplaceAll(host, ".", "-")
}
