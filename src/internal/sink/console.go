// FILE: pathfinder/src/internal/sink/console.go
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"pathfinder/src/internal/config"

	"github.com/lixenwraith/log"
)

// ConsoleSink prints payloads instead of transmitting them. Used for dry runs.
type ConsoleSink struct {
	target    string
	output    io.Writer
	startTime time.Time
	logger    *log.Logger

	// Statistics
	totalSent  atomic.Uint64
	totalBytes atomic.Uint64
	lastSent   atomic.Value // time.Time
}

// NewConsoleSink creates a console sink writing to stdout or stderr.
func NewConsoleSink(opts *config.ConsoleSinkOptions, logger *log.Logger) (*ConsoleSink, error) {
	target := "stdout"
	if opts != nil && opts.Target != "" {
		target = opts.Target
	}

	var output io.Writer
	switch target {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		return nil, fmt.Errorf("invalid console target: %s", target)
	}

	s := NewWriterSink(output, logger)
	s.target = target
	return s, nil
}

// NewWriterSink creates a console sink over an arbitrary writer.
func NewWriterSink(w io.Writer, logger *log.Logger) *ConsoleSink {
	s := &ConsoleSink{
		target:    "writer",
		output:    w,
		startTime: time.Now(),
		logger:    logger,
	}
	s.lastSent.Store(time.Time{})

	logger.Info("msg", "Console sink ready, payloads will be printed",
		"component", "console_sink")
	return s
}

func (s *ConsoleSink) Send(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n, err := s.output.Write(data)
	if err != nil {
		return n, fmt.Errorf("console write failed: %w", err)
	}

	s.totalSent.Add(1)
	s.totalBytes.Add(uint64(n))
	s.lastSent.Store(time.Now())
	return n, nil
}

// Reconnect returns the sink itself; a console never disconnects.
func (s *ConsoleSink) Reconnect(ctx context.Context) (Sink, error) {
	return s, ctx.Err()
}

func (s *ConsoleSink) Close() error {
	return nil
}

func (s *ConsoleSink) GetStats() SinkStats {
	lastSent, _ := s.lastSent.Load().(time.Time)

	return SinkStats{
		Type:       "console",
		TotalSent:  s.totalSent.Load(),
		TotalBytes: s.totalBytes.Load(),
		StartTime:  s.startTime,
		LastSent:   lastSent,
		Details: map[string]any{
			"target": s.target,
		},
	}
}
