// FILE: pathfinder/src/internal/source/reader.go
package source

import (
	"bufio"
	"errors"
	"io"
	"time"
)

// ReaderSource reads lines from any io.Reader.
type ReaderSource struct {
	reader    *bufio.Reader
	closer    io.Closer
	kind      string
	path      string
	startTime time.Time

	linesRead    uint64
	bytesRead    uint64
	lastReadTime time.Time
}

// NewReaderSource wraps r. The source does not close r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{
		reader:    bufio.NewReaderSize(r, 64*1024),
		kind:      "reader",
		startTime: time.Now(),
	}
}

// ReadLine returns the next line including its newline. A final line without
// a newline is returned as-is; the following call returns io.EOF.
func (s *ReaderSource) ReadLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if len(line) > 0 {
		s.linesRead++
		s.bytesRead += uint64(len(line))
		s.lastReadTime = time.Now()
		if errors.Is(err, io.EOF) {
			return line, nil
		}
	}
	return line, err
}

func (s *ReaderSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func (s *ReaderSource) GetStats() SourceStats {
	return SourceStats{
		Type:         s.kind,
		Path:         s.path,
		LinesRead:    s.linesRead,
		BytesRead:    s.bytesRead,
		StartTime:    s.startTime,
		LastReadTime: s.lastReadTime,
	}
}
