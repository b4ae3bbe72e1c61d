// FILE: pathfinder/src/internal/format/json.go
package format

import (
	"bytes"
	"encoding/json"
	"fmt"

	"pathfinder/src/internal/config"
	"pathfinder/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter wraps each entry body in a single-field object keyed by the
// entry's host name: {"<host>": "<body>"}.
type JSONFormatter struct {
	defaultHost string
	logger      *log.Logger
}

// NewJSONFormatter creates a new host-keyed JSON formatter.
func NewJSONFormatter(opts *config.FormatConfig, logger *log.Logger) (*JSONFormatter, error) {
	f := &JSONFormatter{
		defaultHost: core.DefaultHost,
		logger:      logger,
	}
	if opts != nil && opts.DefaultHost != "" {
		f.defaultHost = opts.DefaultHost
	}
	return f, nil
}

// Format transforms a single LogEntry into a newline-terminated JSON object.
func (f *JSONFormatter) Format(entry core.LogEntry) ([]byte, error) {
	record := map[string]string{
		HostName(entry.Host, f.defaultHost): entry.Body,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode appends the trailing newline
	if err := enc.Encode(record); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return buf.Bytes(), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}
