// FILE: pathfinder/src/internal/playback/scheduler_test.go
package playback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pathfinder/src/internal/format"
	"pathfinder/src/internal/sink"
	"pathfinder/src/internal/source"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2016, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeClock records requested sleeps without waiting.
type fakeClock struct {
	sleeps []time.Duration
	err    error
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	if c.err != nil {
		return c.err
	}
	return ctx.Err()
}

// fakeSink records payloads and fails the send calls listed in failCalls.
type fakeSink struct {
	payloads     []string
	calls        int
	failCalls    map[int]error
	reconnects   int
	reconnectErr error
}

func (s *fakeSink) Send(_ context.Context, data []byte) (int, error) {
	s.calls++
	if err, ok := s.failCalls[s.calls]; ok {
		return 0, err
	}
	s.payloads = append(s.payloads, string(data))
	return len(data), nil
}

func (s *fakeSink) Reconnect(context.Context) (sink.Sink, error) {
	s.reconnects++
	if s.reconnectErr != nil {
		return nil, s.reconnectErr
	}
	return s, nil
}

func (s *fakeSink) Close() error { return nil }

func (s *fakeSink) GetStats() sink.SinkStats { return sink.SinkStats{Type: "fake"} }

// bodies decodes the payloads back to the escaped bodies they carry.
func (s *fakeSink) bodies(t *testing.T) []string {
	t.Helper()
	out := make([]string, 0, len(s.payloads))
	for _, p := range s.payloads {
		var record map[string]string
		require.NoError(t, json.Unmarshal([]byte(p), &record))
		require.Len(t, record, 1)
		for _, body := range record {
			out = append(out, body)
		}
	}
	return out
}

// line renders one input record offset from baseTime.
func line(offset time.Duration, msg string) string {
	ts := baseTime.Add(offset).Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf(`{"ts": "%s", "msg": "%s"}`, ts, msg) + "\n"
}

type harness struct {
	sched *Scheduler
	sink  *fakeSink
	clock *fakeClock
}

func newHarness(t *testing.T, input string, opts Options) *harness {
	t.Helper()
	logger := log.NewLogger()

	h := &harness{sink: &fakeSink{}, clock: &fakeClock{}}
	opts.Clock = h.clock
	if opts.TimeScale == 0 {
		opts.TimeScale = 1
	}

	formatter, err := format.NewJSONFormatter(nil, logger)
	require.NoError(t, err)

	parser := source.NewParser(source.NewReaderSource(strings.NewReader(input)), nil, logger)
	h.sched, err = New(parser, h.sink, formatter, opts, logger)
	require.NoError(t, err)
	return h
}

func escapedLine(offset time.Duration, msg string) string {
	return format.EscapeNewlines(line(offset, msg), "::newline::")
}

func TestScaleDelay(t *testing.T) {
	testCases := []struct {
		name     string
		delta    time.Duration
		scale    float64
		expected time.Duration
	}{
		{"Faster", 4 * time.Second, 2, 2 * time.Second},
		{"Identity", 3 * time.Second, 1, 3 * time.Second},
		{"Slower", time.Second, 0.5, 2 * time.Second},
		{"Milliseconds", 250 * time.Millisecond, 10, 25 * time.Millisecond},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ScaleDelay(tc.delta, tc.scale))
		})
	}
}

func TestNew_InvalidTimeScale(t *testing.T) {
	_, err := New(nil, &fakeSink{}, nil, Options{TimeScale: 0}, log.NewLogger())
	assert.Error(t, err)

	_, err = New(nil, &fakeSink{}, nil, Options{TimeScale: -1}, log.NewLogger())
	assert.Error(t, err)
}

func TestScheduler_StrictlyIncreasing(t *testing.T) {
	var input strings.Builder
	for i := 0; i < 5; i++ {
		input.WriteString(line(time.Duration(i)*time.Second, fmt.Sprintf("m%d", i)))
	}
	h := newHarness(t, input.String(), Options{})

	summary, err := h.sched.Run(context.Background())
	require.NoError(t, err)

	// Every distinct timestamp but the last is flushed
	assert.Equal(t, uint64(4), summary.Flushes)
	assert.Equal(t, uint64(4), summary.Shipped)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second, time.Second}, h.clock.sleeps)
}

func TestScheduler_SameTimestampBatch(t *testing.T) {
	input := line(0, "a") + line(0, "b") + line(0, "c") + line(time.Second, "d")
	h := newHarness(t, input, Options{})

	summary, err := h.sched.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), summary.Flushes)
	assert.Equal(t, []string{
		escapedLine(0, "a"),
		escapedLine(0, "b"),
		escapedLine(0, "c"),
	}, h.sink.bodies(t), "same-timestamp entries go out together in file order")
	assert.Equal(t, []time.Duration{time.Second}, h.clock.sleeps)
}

func TestScheduler_MalformedLines(t *testing.T) {
	lines := []string{
		line(0, "1"),
		"garbage\n",
		line(0, "2"),
		line(time.Second, "3"),
		`{"msg": "no stamp"}` + "\n",
		line(time.Second, "4"),
		line(2*time.Second, "5"),
		"\n",
		line(3*time.Second, "6"),
		line(3*time.Second, "7"),
	}
	require.Len(t, lines, 10)
	h := newHarness(t, strings.Join(lines, ""), Options{})

	summary, err := h.sched.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(3), summary.Malformed)
	// 7 valid entries, the last two share the final unflushed timestamp
	assert.Equal(t, uint64(5), summary.Shipped)
	assert.Equal(t, 2, summary.Pending)
}

func TestScheduler_EndToEnd(t *testing.T) {
	input := line(0, "first") + line(2*time.Second, "second") + line(2*time.Second, "third")

	t.Run("RealTime", func(t *testing.T) {
		h := newHarness(t, input, Options{TimeScale: 1})

		summary, err := h.sched.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, uint64(1), summary.Flushes)
		assert.Equal(t, []string{escapedLine(0, "first")}, h.sink.bodies(t))
		assert.Equal(t, []time.Duration{2 * time.Second}, h.clock.sleeps)
		assert.Equal(t, 2, summary.Pending, "trailing batch is not delivered")
	})

	t.Run("Scaled", func(t *testing.T) {
		h := newHarness(t, input, Options{TimeScale: 2})

		_, err := h.sched.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []time.Duration{time.Second}, h.clock.sleeps)
	})

	t.Run("FlushFinal", func(t *testing.T) {
		h := newHarness(t, input, Options{FlushFinal: true})

		summary, err := h.sched.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, uint64(2), summary.Flushes)
		assert.Equal(t, uint64(3), summary.Shipped)
		assert.Equal(t, 0, summary.Pending)
		assert.Len(t, h.sink.payloads, 3)
		assert.Equal(t, []time.Duration{2 * time.Second}, h.clock.sleeps, "no wait after the final batch")
	})
}

func TestScheduler_EscapesNewlines(t *testing.T) {
	input := line(0, "a") + line(time.Second, "b")
	h := newHarness(t, input, Options{Separator: "<NL>"})

	_, err := h.sched.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, h.sink.payloads, 1)
	payload := h.sink.payloads[0]
	assert.Equal(t, 1, strings.Count(payload, "\n"), "only the frame terminator remains")
	assert.True(t, strings.HasSuffix(payload, "<NL>\"}\n"))
}

func TestScheduler_HostKey(t *testing.T) {
	input := `{"ts": "2016-03-01 12:00:00.000", "hn": "db.prod.local"}` + "\n" + line(time.Second, "x")
	h := newHarness(t, input, Options{})

	_, err := h.sched.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, h.sink.payloads, 1)
	assert.True(t, strings.HasPrefix(h.sink.payloads[0], `{"db-prod-local":`))
}

func TestScheduler_AnchorIsMostRecentEntry(t *testing.T) {
	// The stamp going backwards joins the open batch and becomes the anchor
	input := line(5*time.Second, "a") + line(3*time.Second, "b") + line(4*time.Second, "c")
	h := newHarness(t, input, Options{})

	summary, err := h.sched.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(2), summary.Shipped)
	assert.Equal(t, []time.Duration{time.Second}, h.clock.sleeps)
}

func TestScheduler_ReconnectResumesBatch(t *testing.T) {
	input := line(0, "a") + line(0, "b") + line(0, "c") + line(time.Second, "d")
	h := newHarness(t, input, Options{})
	h.sink.failCalls = map[int]error{
		2: fmt.Errorf("%w: reset by peer", sink.ErrConnectionLost),
	}

	summary, err := h.sched.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, h.sink.reconnects)
	assert.Equal(t, uint64(1), summary.Reconnects)
	assert.Equal(t, uint64(3), summary.Shipped)
	assert.Equal(t, []string{
		escapedLine(0, "a"),
		escapedLine(0, "b"),
		escapedLine(0, "c"),
	}, h.sink.bodies(t), "no entry is lost or duplicated")
}

func TestScheduler_NotConnectedTriggersReconnect(t *testing.T) {
	input := line(0, "a") + line(time.Second, "b")
	h := newHarness(t, input, Options{})
	h.sink.failCalls = map[int]error{1: sink.ErrNotConnected}

	summary, err := h.sched.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, h.sink.reconnects)
	assert.Equal(t, uint64(1), summary.Shipped)
}

func TestScheduler_FatalSendError(t *testing.T) {
	input := line(0, "a") + line(time.Second, "b")
	h := newHarness(t, input, Options{})
	boom := errors.New("disk on fire")
	h.sink.failCalls = map[int]error{1: boom}

	_, err := h.sched.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, h.sink.reconnects)
}

func TestScheduler_ReconnectFailure(t *testing.T) {
	input := line(0, "a") + line(time.Second, "b")
	h := newHarness(t, input, Options{})
	h.sink.failCalls = map[int]error{1: sink.ErrConnectionLost}
	h.sink.reconnectErr = sink.ErrSinkClosed

	_, err := h.sched.Run(context.Background())
	assert.ErrorIs(t, err, sink.ErrSinkClosed)
}

func TestScheduler_CancelledDuringSleep(t *testing.T) {
	input := line(0, "a") + line(time.Second, "b") + line(2*time.Second, "c")
	h := newHarness(t, input, Options{})
	h.clock.err = context.Canceled

	summary, err := h.sched.Run(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(1), summary.Shipped)
	assert.Len(t, h.clock.sleeps, 1)
}

type failingReader struct{}

func (failingReader) Next() (source.Result, error) {
	return source.Result{}, errors.New("read failed")
}

func TestScheduler_ReadError(t *testing.T) {
	formatter, err := format.NewRawFormatter(nil, log.NewLogger())
	require.NoError(t, err)

	s, err := New(failingReader{}, &fakeSink{}, formatter, Options{TimeScale: 1, Clock: &fakeClock{}}, log.NewLogger())
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	assert.ErrorContains(t, err, "read failed")
}

func TestScheduler_Stats(t *testing.T) {
	input := line(0, "a") + "junk\n" + line(time.Second, "b")
	h := newHarness(t, input, Options{})

	_, err := h.sched.Run(context.Background())
	require.NoError(t, err)

	stats := h.sched.Stats()
	assert.Equal(t, uint64(1), stats.Shipped)
	assert.Equal(t, uint64(1), stats.Malformed)
	assert.Equal(t, 1, stats.Pending)
}
