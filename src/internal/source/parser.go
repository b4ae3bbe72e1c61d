// FILE: pathfinder/src/internal/source/parser.go
package source

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"pathfinder/src/internal/config"
	"pathfinder/src/internal/core"

	"github.com/lixenwraith/log"
)

// Millisecond stamps are the norm; up to microseconds are accepted.
var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{1,6}$`)

// Result is the outcome of parsing one line. A malformed result carries no
// entry and is counted by the caller.
type Result struct {
	Entry     core.LogEntry
	Malformed bool
	Reason    string
}

// Parser turns raw lines into dated log entries, one line per call.
type Parser struct {
	source         Source
	timestampField string
	hostField      string
	logger         *log.Logger
}

// NewParser creates an entry parser over src.
func NewParser(src Source, opts *config.ParserConfig, logger *log.Logger) *Parser {
	p := &Parser{
		source:         src,
		timestampField: core.TimestampField,
		hostField:      core.HostField,
		logger:         logger,
	}
	if opts != nil {
		if opts.TimestampField != "" {
			p.timestampField = opts.TimestampField
		}
		if opts.HostField != "" {
			p.hostField = opts.HostField
		}
	}
	return p
}

// Next consumes exactly one line. It returns io.EOF when the source is
// exhausted and any other read error unchanged. Malformed lines are never
// errors.
func (p *Parser) Next() (Result, error) {
	line, err := p.source.ReadLine()
	if err != nil {
		return Result{}, err
	}

	entry, reason := p.parseLine(line)
	if reason != "" {
		p.logger.Debug("msg", "Malformed line",
			"component", "entry_parser",
			"reason", reason,
			"size", len(line))
		return Result{Malformed: true, Reason: reason}, nil
	}

	return Result{Entry: entry}, nil
}

// parseLine returns the entry for line, or a non-empty reason it was rejected.
func (p *Parser) parseLine(line string) (core.LogEntry, string) {
	var record map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &record); err != nil || record == nil {
		return core.LogEntry{}, "not a JSON object"
	}

	raw, ok := record[p.timestampField]
	if !ok {
		return core.LogEntry{}, fmt.Sprintf("missing %q field", p.timestampField)
	}

	var stamp string
	if err := json.Unmarshal(raw, &stamp); err != nil {
		return core.LogEntry{}, fmt.Sprintf("%q field is not a string", p.timestampField)
	}

	ts, err := ParseTimestamp(stamp)
	if err != nil {
		return core.LogEntry{}, err.Error()
	}

	// A non-string host is treated as absent
	var host string
	if raw, ok := record[p.hostField]; ok {
		_ = json.Unmarshal(raw, &host)
	}

	return core.LogEntry{
		Time: ts,
		Body: line,
		Host: host,
	}, ""
}

// ParseTimestamp parses a "YYYY-MM-DD HH:MM:SS.mmm" stamp as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if !timestampPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	ts, err := time.ParseInLocation(core.TimestampFmt, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return ts, nil
}
