// FILE: pathfinder/src/internal/playback/state.go
package playback

import (
	"sync/atomic"
	"time"

	"pathfinder/src/internal/core"
)

// State is the mutable state of one playback run. The open batch is owned by
// the scheduler; counters may be read concurrently through Snapshot.
type State struct {
	batch     []core.LogEntry
	startTime time.Time

	shipped    atomic.Uint64
	malformed  atomic.Uint64
	flushes    atomic.Uint64
	reconnects atomic.Uint64
	pending    atomic.Int64
}

// Summary is a point-in-time view of a run's counters.
type Summary struct {
	// Entries delivered to the sink
	Shipped uint64
	// Lines that did not parse as dated entries
	Malformed uint64
	// Batches delivered
	Flushes uint64
	// Times the sink had to be re-established
	Reconnects uint64
	// Entries in the open batch, not delivered
	Pending int
	Elapsed time.Duration
}

func newState() *State {
	return &State{startTime: time.Now()}
}

func (s *State) append(entry core.LogEntry) {
	s.batch = append(s.batch, entry)
	s.pending.Store(int64(len(s.batch)))
}

func (s *State) reset() {
	s.batch = s.batch[:0]
	s.pending.Store(0)
}

// anchor returns the entry the next timestamp is compared against.
func (s *State) anchor() (core.LogEntry, bool) {
	if len(s.batch) == 0 {
		return core.LogEntry{}, false
	}
	return s.batch[len(s.batch)-1], true
}

// Snapshot returns the current counters.
func (s *State) Snapshot() Summary {
	return Summary{
		Shipped:    s.shipped.Load(),
		Malformed:  s.malformed.Load(),
		Flushes:    s.flushes.Load(),
		Reconnects: s.reconnects.Load(),
		Pending:    int(s.pending.Load()),
		Elapsed:    time.Since(s.startTime),
	}
}
