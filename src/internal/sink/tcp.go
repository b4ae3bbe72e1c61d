// FILE: pathfinder/src/internal/sink/tcp.go
package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pathfinder/src/internal/config"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/panjf2000/gnet/v2"
)

// ErrSinkClosed is returned by blocking calls once the sink is shut down.
var ErrSinkClosed = errors.New("sink closed")

// TCPSink listens for a single downstream client and writes payloads to it.
// Additional clients are refused while one is attached.
type TCPSink struct {
	// Configuration
	config       *config.TCPSinkOptions
	writeTimeout time.Duration

	// Network
	server   *tcpServer
	engine   *gnet.Engine
	engineMu sync.Mutex

	// Attached client, nil while waiting for one
	mu     sync.Mutex
	client *tcpClient
	ready  chan struct{}

	// Runtime
	logger    *log.Logger
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	startTime time.Time

	// Statistics
	activeConns     atomic.Int64
	totalSent       atomic.Uint64
	totalBytes      atomic.Uint64
	totalFailed     atomic.Uint64
	totalReconnects atomic.Uint64
	totalRejected   atomic.Uint64
	lastSent        atomic.Value // time.Time
}

// tcpClient represents the attached downstream connection.
type tcpClient struct {
	conn        gnet.Conn
	remoteAddr  string
	connectTime time.Time
	closed      chan struct{}
}

// NewTCPSink creates a TCP listener sink. Call Start to begin listening.
func NewTCPSink(opts *config.TCPSinkOptions, logger *log.Logger) (*TCPSink, error) {
	if opts == nil {
		return nil, fmt.Errorf("TCP sink options cannot be nil")
	}

	t := &TCPSink{
		config:       opts,
		writeTimeout: time.Duration(opts.WriteTimeoutMS) * time.Millisecond,
		ready:        make(chan struct{}, 1),
		logger:       logger,
		done:         make(chan struct{}),
		startTime:    time.Now(),
	}
	t.lastSent.Store(time.Time{})

	return t, nil
}

// Start binds the listener and returns once the event loop is running.
func (t *TCPSink) Start(ctx context.Context) error {
	t.server = &tcpServer{
		sink:   t,
		booted: make(chan struct{}),
	}

	addr := fmt.Sprintf("tcp://%s:%d", t.config.Host, t.config.Port)

	// Create a gnet adapter using the existing logger instance
	gnetLogger := compat.NewGnetAdapter(t.logger)

	errChan := make(chan error, 1)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.logger.Info("msg", "Starting TCP listener",
			"component", "tcp_sink",
			"address", addr)

		err := gnet.Run(t.server, addr,
			gnet.WithLogger(gnetLogger),
			gnet.WithMulticore(false),
			gnet.WithReuseAddr(true),
			gnet.WithTCPKeepAlive(30*time.Second),
		)
		if err != nil {
			t.logger.Error("msg", "TCP listener failed",
				"component", "tcp_sink",
				"address", addr,
				"error", err)
		}
		errChan <- err
	}()

	select {
	case err := <-errChan:
		if err == nil {
			err = fmt.Errorf("TCP listener on %s exited before start", addr)
		}
		return err
	case <-t.server.booted:
	}

	// Shut the listener down with the run
	go func() {
		select {
		case <-ctx.Done():
			t.Close()
		case <-t.done:
		}
	}()

	t.logger.Info("msg", "TCP listener started",
		"component", "tcp_sink",
		"port", t.config.Port)
	return nil
}

// Accept blocks until a client is attached.
func (t *TCPSink) Accept(ctx context.Context) error {
	t.logger.Info("msg", "Awaiting connection",
		"component", "tcp_sink",
		"port", t.config.Port)

	for {
		if client := t.currentClient(); client != nil {
			t.logger.Info("msg", "Connection accepted",
				"component", "tcp_sink",
				"remote_addr", client.remoteAddr)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.done:
			return ErrSinkClosed
		case <-t.ready:
		}
	}
}

// Send writes data to the attached client and waits for the write to land.
func (t *TCPSink) Send(ctx context.Context, data []byte) (int, error) {
	client := t.currentClient()
	if client == nil {
		t.totalFailed.Add(1)
		return 0, ErrNotConnected
	}

	result := make(chan error, 1)
	err := client.conn.AsyncWrite(data, func(_ gnet.Conn, err error) error {
		result <- err
		return nil
	})
	if err != nil {
		t.totalFailed.Add(1)
		return 0, fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}

	var timeout <-chan time.Time
	if t.writeTimeout > 0 {
		timer := time.NewTimer(t.writeTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case err := <-result:
		if err != nil {
			t.totalFailed.Add(1)
			return 0, fmt.Errorf("%w: write failed: %v", ErrConnectionLost, err)
		}
	case <-client.closed:
		t.totalFailed.Add(1)
		return 0, fmt.Errorf("%w: client %s disconnected", ErrConnectionLost, client.remoteAddr)
	case <-timeout:
		t.totalFailed.Add(1)
		return 0, fmt.Errorf("%w: write timeout after %v", ErrConnectionLost, t.writeTimeout)
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	t.totalSent.Add(1)
	t.totalBytes.Add(uint64(len(data)))
	t.lastSent.Store(time.Now())
	return len(data), nil
}

// Reconnect drops the current client, if any, and blocks until a new one
// connects.
func (t *TCPSink) Reconnect(ctx context.Context) (Sink, error) {
	t.mu.Lock()
	old := t.client
	t.client = nil
	t.mu.Unlock()

	if old != nil {
		_ = old.conn.Close()
		t.logger.Warn("msg", "Lost connection to client",
			"component", "tcp_sink",
			"remote_addr", old.remoteAddr,
			"uptime", time.Since(old.connectTime))
	}
	t.totalReconnects.Add(1)

	if err := t.Accept(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Close stops the listener and disconnects the client.
func (t *TCPSink) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.logger.Info("msg", "Stopping TCP sink", "component", "tcp_sink")
		close(t.done)

		t.engineMu.Lock()
		engine := t.engine
		t.engineMu.Unlock()

		if engine != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err = (*engine).Stop(ctx)
		}

		t.wg.Wait()

		t.logger.Info("msg", "TCP sink stopped",
			"component", "tcp_sink",
			"total_sent", t.totalSent.Load(),
			"total_failed", t.totalFailed.Load(),
			"total_reconnects", t.totalReconnects.Load())
	})
	return err
}

// GetStats returns the sink's statistics.
func (t *TCPSink) GetStats() SinkStats {
	lastSent, _ := t.lastSent.Load().(time.Time)

	var remote string
	if client := t.currentClient(); client != nil {
		remote = client.remoteAddr
	}

	return SinkStats{
		Type:              "tcp",
		TotalSent:         t.totalSent.Load(),
		TotalBytes:        t.totalBytes.Load(),
		TotalFailed:       t.totalFailed.Load(),
		TotalReconnects:   t.totalReconnects.Load(),
		ActiveConnections: t.activeConns.Load(),
		StartTime:         t.startTime,
		LastSent:          lastSent,
		Details: map[string]any{
			"host":           t.config.Host,
			"port":           t.config.Port,
			"remote_addr":    remote,
			"total_rejected": t.totalRejected.Load(),
		},
	}
}

func (t *TCPSink) currentClient() *tcpClient {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client
}

// tcpServer implements the gnet.EventHandler interface for the TCP sink.
type tcpServer struct {
	gnet.BuiltinEventEngine
	sink   *TCPSink
	booted chan struct{}
}

// OnBoot is called when the server starts.
func (s *tcpServer) OnBoot(eng gnet.Engine) gnet.Action {
	s.sink.engineMu.Lock()
	s.sink.engine = &eng
	s.sink.engineMu.Unlock()

	close(s.booted)
	return gnet.None
}

// OnOpen attaches the connection unless a client is already attached.
func (s *tcpServer) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	remoteAddr := c.RemoteAddr().String()

	client := &tcpClient{
		conn:        c,
		remoteAddr:  remoteAddr,
		connectTime: time.Now(),
		closed:      make(chan struct{}),
	}

	s.sink.mu.Lock()
	if s.sink.client != nil {
		s.sink.mu.Unlock()
		s.sink.totalRejected.Add(1)
		s.sink.logger.Warn("msg", "Rejecting connection, a client is already attached",
			"component", "tcp_sink",
			"remote_addr", remoteAddr)
		return nil, gnet.Close
	}
	c.SetContext(client)
	newCount := s.sink.activeConns.Add(1)
	s.sink.client = client
	s.sink.mu.Unlock()

	// Wake a pending Accept
	select {
	case s.sink.ready <- struct{}{}:
	default:
	}

	s.sink.logger.Debug("msg", "TCP connection opened",
		"component", "tcp_sink",
		"remote_addr", remoteAddr,
		"active_connections", newCount)
	return nil, gnet.None
}

// OnClose detaches the client if it is still the attached one.
func (s *tcpServer) OnClose(c gnet.Conn, err error) gnet.Action {
	client, ok := c.Context().(*tcpClient)
	if !ok {
		// Rejected before attaching
		return gnet.None
	}

	s.sink.mu.Lock()
	if s.sink.client == client {
		s.sink.client = nil
	}
	s.sink.mu.Unlock()

	close(client.closed)
	newCount := s.sink.activeConns.Add(-1)

	s.sink.logger.Debug("msg", "TCP connection closed",
		"component", "tcp_sink",
		"remote_addr", client.remoteAddr,
		"active_connections", newCount,
		"error", err)
	return gnet.None
}

// OnTraffic discards anything the client sends; the stream is one-way.
func (s *tcpServer) OnTraffic(c gnet.Conn) gnet.Action {
	if _, err := c.Next(-1); err != nil {
		return gnet.Close
	}
	return gnet.None
}
