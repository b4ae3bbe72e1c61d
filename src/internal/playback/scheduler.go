// FILE: pathfinder/src/internal/playback/scheduler.go
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"pathfinder/src/internal/core"
	"pathfinder/src/internal/flow"
	"pathfinder/src/internal/format"
	"pathfinder/src/internal/sink"
	"pathfinder/src/internal/source"

	"github.com/lixenwraith/log"
)

// EntryReader yields parse results one line at a time, io.EOF at the end.
type EntryReader interface {
	Next() (source.Result, error)
}

// Options configures a Scheduler.
type Options struct {
	// Divisor applied to timestamp deltas, must be positive
	TimeScale float64

	// Deliver the open batch at end of input
	FlushFinal bool

	// Replacement for literal newlines in bodies
	Separator string

	// Defaults to RealClock
	Clock Clock

	// Optional send-rate cap
	Throttle *flow.Throttle
}

// Scheduler groups entries by timestamp and delivers each group to the sink,
// sleeping the scaled original gap between groups.
type Scheduler struct {
	reader    EntryReader
	sink      sink.Sink
	formatter format.Formatter
	opts      Options
	logger    *log.Logger
	state     *State
}

// New creates a scheduler. The sink must be ready to send.
func New(reader EntryReader, snk sink.Sink, formatter format.Formatter, opts Options, logger *log.Logger) (*Scheduler, error) {
	if opts.TimeScale <= 0 {
		return nil, fmt.Errorf("time scale must be positive: %v", opts.TimeScale)
	}
	if opts.Separator == "" {
		opts.Separator = core.NewlineSeparator
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}

	return &Scheduler{
		reader:    reader,
		sink:      snk,
		formatter: formatter,
		opts:      opts,
		logger:    logger,
		state:     newState(),
	}, nil
}

// Stats returns the run's counters. Safe to call while Run is in progress.
func (s *Scheduler) Stats() Summary {
	return s.state.Snapshot()
}

// Run consumes the reader to completion. The returned summary is valid even
// when an error is returned.
func (s *Scheduler) Run(ctx context.Context) (Summary, error) {
	s.logger.Info("msg", "Playback started",
		"component", "scheduler",
		"time_scale", s.opts.TimeScale,
		"flush_final", s.opts.FlushFinal,
		"format", s.formatter.Name())

	for {
		if err := ctx.Err(); err != nil {
			return s.finish(), err
		}

		res, err := s.reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s.finish(), fmt.Errorf("failed to read input: %w", err)
		}

		if res.Malformed {
			s.state.malformed.Add(1)
			continue
		}

		s.logger.Debug("msg", "Processed entry",
			"component", "scheduler",
			"timestamp", res.Entry.Time.Format(core.TimestampFmt+".000"),
			"host", res.Entry.Host,
			"body", res.Entry.Body)

		if err := s.accept(ctx, res.Entry); err != nil {
			return s.finish(), err
		}
	}

	if s.opts.FlushFinal && len(s.state.batch) > 0 {
		if err := s.deliver(ctx, s.escaped()); err != nil {
			return s.finish(), err
		}
		s.state.flushes.Add(1)
		s.state.reset()
	}

	return s.finish(), nil
}

// accept adds entry to the open batch, flushing the batch first when entry
// is strictly later than the anchor.
func (s *Scheduler) accept(ctx context.Context, entry core.LogEntry) error {
	if anchor, ok := s.state.anchor(); ok && entry.Time.After(anchor.Time) {
		if err := s.flush(ctx, entry.Time.Sub(anchor.Time)); err != nil {
			return err
		}
	}
	s.state.append(entry)
	return nil
}

// flush delivers the open batch, then waits for the scaled delta.
func (s *Scheduler) flush(ctx context.Context, delta time.Duration) error {
	if err := s.deliver(ctx, s.escaped()); err != nil {
		return err
	}
	s.state.flushes.Add(1)

	wait := ScaleDelay(delta, s.opts.TimeScale)
	s.logger.Debug("msg", "Sleeping until next batch",
		"component", "scheduler",
		"delta", delta,
		"sleep_seconds", wait.Seconds())

	if err := s.opts.Clock.Sleep(ctx, wait); err != nil {
		return err
	}

	s.state.reset()
	return nil
}

// escaped returns copies of the open batch with newlines replaced.
func (s *Scheduler) escaped() []core.LogEntry {
	out := make([]core.LogEntry, len(s.state.batch))
	for i, entry := range s.state.batch {
		out[i] = entry.WithBody(format.EscapeNewlines(entry.Body, s.opts.Separator))
	}
	return out
}

// deliver sends entries one at a time. A lost connection is re-established
// and delivery resumes at the entry that failed.
func (s *Scheduler) deliver(ctx context.Context, entries []core.LogEntry) error {
	s.logger.Debug("msg", "Shipping batch",
		"component", "scheduler",
		"entries", len(entries))

	for _, entry := range entries {
		payload, err := s.formatter.Format(entry)
		if err != nil {
			return fmt.Errorf("failed to format entry: %w", err)
		}

		for {
			if err := s.opts.Throttle.Wait(ctx); err != nil {
				return err
			}

			n, err := s.sink.Send(ctx, payload)
			if err == nil {
				s.state.shipped.Add(1)
				s.logger.Debug("msg", "Sent entry",
					"component", "scheduler",
					"bytes", n,
					"batch_size", len(entries))
				break
			}

			if !errors.Is(err, sink.ErrConnectionLost) {
				return fmt.Errorf("failed to send entry: %w", err)
			}

			s.logger.Warn("msg", "Delivery failed, waiting for a new connection",
				"component", "scheduler",
				"error", err)

			next, rerr := s.sink.Reconnect(ctx)
			if rerr != nil {
				return fmt.Errorf("failed to reconnect: %w", rerr)
			}
			s.sink = next
			s.state.reconnects.Add(1)
		}
	}

	return nil
}

func (s *Scheduler) finish() Summary {
	summary := s.state.Snapshot()

	s.logger.Info("msg", "Playback finished",
		"component", "scheduler",
		"shipped", summary.Shipped,
		"malformed", summary.Malformed,
		"flushes", summary.Flushes,
		"reconnects", summary.Reconnects,
		"undelivered", summary.Pending,
		"elapsed", summary.Elapsed)

	return summary
}
