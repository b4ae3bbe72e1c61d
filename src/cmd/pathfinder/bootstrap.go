// FILE: pathfinder/src/cmd/pathfinder/bootstrap.go
package main

import (
	"context"
	"fmt"
	"time"

	"pathfinder/src/internal/config"
	"pathfinder/src/internal/flow"
	"pathfinder/src/internal/format"
	"pathfinder/src/internal/playback"
	"pathfinder/src/internal/sink"
	"pathfinder/src/internal/source"

	"github.com/lixenwraith/log"
)

// acceptor is implemented by sinks that must wait for a peer before the
// first send.
type acceptor interface {
	Accept(ctx context.Context) error
}

// player owns every component of one playback run.
type player struct {
	source    *source.ReaderSource
	sink      sink.Sink
	scheduler *playback.Scheduler
	logger    *log.Logger
}

// bootstrapPlayer opens the input, starts the sink and waits for the first
// client. The input is opened first so a bad path fails before anything
// listens.
func bootstrapPlayer(ctx context.Context, cfg *config.Config, logger *log.Logger) (*player, error) {
	src, err := source.NewFileSource(cfg.File, logger)
	if err != nil {
		return nil, err
	}

	p := &player{source: src, logger: logger}

	formatter, err := format.New(&cfg.Sink.Format, logger)
	if err != nil {
		p.Close()
		return nil, err
	}

	snk, err := sink.New(ctx, &cfg.Sink, logger)
	if err != nil {
		p.Close()
		return nil, &setupError{err: err}
	}
	p.sink = snk

	if a, ok := snk.(acceptor); ok {
		if err := a.Accept(ctx); err != nil {
			p.Close()
			return nil, &setupError{err: err}
		}
	}

	parser := source.NewParser(src, &cfg.Parser, logger)
	p.scheduler, err = playback.New(parser, snk, formatter, playback.Options{
		TimeScale:  cfg.Playback.TimeScale,
		FlushFinal: cfg.Playback.FlushFinal,
		Separator:  cfg.Sink.Format.Separator,
		Throttle:   flow.NewThrottle(cfg.Playback.RateLimit, logger),
	}, logger)
	if err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// Run replays the input to completion or until ctx is done.
func (p *player) Run(ctx context.Context) (playback.Summary, error) {
	return p.scheduler.Run(ctx)
}

func (p *player) Stats() playback.Summary {
	if p.scheduler == nil {
		return playback.Summary{}
	}
	return p.scheduler.Stats()
}

func (p *player) SinkStats() sink.SinkStats {
	if p.sink == nil {
		return sink.SinkStats{}
	}
	return p.sink.GetStats()
}

// Close releases the sink and the input, logging their final statistics.
func (p *player) Close() {
	if p.sink != nil {
		stats := p.sink.GetStats()
		if err := p.sink.Close(); err != nil {
			p.logger.Warn("msg", "Failed to close sink",
				"component", "main",
				"error", err)
		}
		p.logger.Info("msg", "Sink closed",
			"component", "main",
			"type", stats.Type,
			"sent", stats.TotalSent,
			"bytes", stats.TotalBytes,
			"failed", stats.TotalFailed,
			"reconnects", stats.TotalReconnects)
	}

	if p.source != nil {
		stats := p.source.GetStats()
		if err := p.source.Close(); err != nil {
			p.logger.Warn("msg", "Failed to close source",
				"component", "main",
				"error", err)
		}
		p.logger.Debug("msg", "Source closed",
			"component", "main",
			"path", stats.Path,
			"lines", stats.LinesRead,
			"bytes", stats.BytesRead)
	}
}

// setupError marks a failure to bring the sink up. It is reported through the
// logger only.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return fmt.Sprintf("sink setup failed: %v", e.err) }
func (e *setupError) Unwrap() error { return e.err }

// initializeLogger sets up the logger based on configuration
func initializeLogger(cfg *config.Config) error {
	logger = log.NewLogger()

	var configArgs []string

	if cfg.Quiet {
		// In quiet mode, disable ALL logging output
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=false",
			"level=255")

		return logger.InitWithDefaults(configArgs...)
	}

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	configArgs = append(configArgs, fmt.Sprintf("level=%d", levelValue))

	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stdout")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	case "file":
		configArgs = append(configArgs, "enable_stdout=false")
		configureFileLogging(&configArgs, cfg)

	case "both":
		configArgs = append(configArgs, "enable_stdout=true")
		configureFileLogging(&configArgs, cfg)
		configureConsoleTarget(&configArgs, cfg)

	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if cfg.Logging.Console.Format != "" {
		configArgs = append(configArgs, fmt.Sprintf("format=%s", cfg.Logging.Console.Format))
	}

	return logger.InitWithDefaults(configArgs...)
}

func configureFileLogging(configArgs *[]string, cfg *config.Config) {
	*configArgs = append(*configArgs,
		fmt.Sprintf("directory=%s", cfg.Logging.File.Directory),
		fmt.Sprintf("name=%s", cfg.Logging.File.Name),
		fmt.Sprintf("max_size_mb=%d", cfg.Logging.File.MaxSizeMB),
		fmt.Sprintf("max_total_size_mb=%d", cfg.Logging.File.MaxTotalSizeMB))
}

func configureConsoleTarget(configArgs *[]string, cfg *config.Config) {
	target := "stderr"
	if cfg.Logging.Console.Target != "" {
		target = cfg.Logging.Console.Target
	}

	if target == "split" {
		*configArgs = append(*configArgs, "stdout_split_mode=true")
		*configArgs = append(*configArgs, "stdout_target=split")
	} else {
		*configArgs = append(*configArgs, fmt.Sprintf("stdout_target=%s", target))
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			Error("Logger shutdown error: %v\n", err)
		}
	}
}
