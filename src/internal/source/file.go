// FILE: pathfinder/src/internal/source/file.go
package source

import (
	"fmt"
	"os"

	"github.com/lixenwraith/log"
)

// StdinPath selects standard input as the playback source.
const StdinPath = "-"

// NewFileSource opens path for a single forward read. Open errors are
// returned unchanged so callers can inspect them with os.IsNotExist and
// friends.
func NewFileSource(path string, logger *log.Logger) (*ReaderSource, error) {
	if path == StdinPath {
		s := NewReaderSource(os.Stdin)
		s.kind = "stdin"
		s.path = path
		logger.Info("msg", "Reading playback input from stdin",
			"component", "file_source")
		return s, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	s := NewReaderSource(file)
	s.kind = "file"
	s.path = path
	s.closer = file

	logger.Info("msg", "File source opened",
		"component", "file_source",
		"path", path,
		"size", info.Size())

	return s, nil
}
