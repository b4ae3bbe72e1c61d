// FILE: pathfinder/src/cmd/pathfinder/status.go
package main

import (
	"context"
	"os"
	"time"

	"pathfinder/src/internal/config"
	"pathfinder/src/internal/playback"
	"pathfinder/src/internal/sink"
)

const statusInterval = 30 * time.Second

// statsProvider is the part of a playback run the reporter observes.
type statsProvider interface {
	Stats() playback.Summary
	SinkStats() sink.SinkStats
}

// statusReporter periodically logs playback progress until ctx is done.
func statusReporter(ctx context.Context, run statsProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logStatus(run)
		}
	}
}

func logStatus(run statsProvider) {
	summary := run.Stats()
	sinkStats := run.SinkStats()

	logger.Info("msg", "Playback status",
		"component", "status_reporter",
		"shipped", summary.Shipped,
		"malformed", summary.Malformed,
		"flushes", summary.Flushes,
		"pending", summary.Pending,
		"reconnects", summary.Reconnects,
		"bytes_sent", sinkStats.TotalBytes,
		"active_connections", sinkStats.ActiveConnections,
		"elapsed", summary.Elapsed.Round(time.Second))
}

// enableStatusReporter reports whether periodic status logging is on. The
// environment variable wins over the config file.
func enableStatusReporter(cfg *config.Config) bool {
	if os.Getenv("PATHFINDER_DISABLE_STATUS_REPORTER") == "1" {
		return false
	}
	return !cfg.DisableStatusReporter
}
