// FILE: pathfinder/src/internal/sink/sink.go
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pathfinder/src/internal/config"

	"github.com/lixenwraith/log"
)

var (
	// ErrConnectionLost means the peer went away mid-delivery. Callers recover
	// with Reconnect and retry the undelivered payload.
	ErrConnectionLost = errors.New("connection lost")

	// ErrNotConnected means no client is attached to the sink.
	ErrNotConnected = fmt.Errorf("not connected: %w", ErrConnectionLost)
)

// Sink represents the destination replayed payloads are delivered to
type Sink interface {
	// Send delivers one payload and returns the number of bytes written
	Send(ctx context.Context, data []byte) (int, error)

	// Reconnect blocks until a usable destination is available again and
	// returns the sink to continue delivering to
	Reconnect(ctx context.Context) (Sink, error)

	// Close releases the destination
	Close() error

	// GetStats returns sink statistics
	GetStats() SinkStats
}

// SinkStats contains statistics about a sink
type SinkStats struct {
	Type              string
	TotalSent         uint64
	TotalBytes        uint64
	TotalFailed       uint64
	TotalReconnects   uint64
	ActiveConnections int64
	StartTime         time.Time
	LastSent          time.Time
	Details           map[string]any
}

// New creates the sink selected by cfg. A TCP sink is started and listening
// on return but has no client yet; see TCPSink.Accept.
func New(ctx context.Context, cfg *config.SinkConfig, logger *log.Logger) (Sink, error) {
	switch cfg.Type {
	case "console":
		return NewConsoleSink(&cfg.Console, logger)
	case "tcp":
		t, err := NewTCPSink(&cfg.TCP, logger)
		if err != nil {
			return nil, err
		}
		if err := t.Start(ctx); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown sink type: %s", cfg.Type)
	}
}
