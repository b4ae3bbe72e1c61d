// FILE: pathfinder/src/cmd/pathfinder/flags.go
package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/lixenwraith/log"
)

// FlagConfig holds the parsed command line.
type FlagConfig struct {
	ConfigFile  string
	ShowVersion bool
	Quiet       bool

	// Config paths of every flag the user set, mapped to its value
	Overrides map[string]any
}

// flagPaths maps flag names to the config path they override.
var flagPaths = map[string]string{
	"file":        "file",
	"port":        "sink.tcp.port",
	"host":        "sink.tcp.host",
	"time":        "playback.time_scale",
	"debug":       "debug",
	"flush-final": "playback.flush_final",
	"rate":        "playback.rate_limit.rate",
	"format":      "sink.format.type",
	"log-level":   "logging.level",
	"log-output":  "logging.output",
	"quiet":       "quiet",
}

// parseFlags parses args (without the program name). Only flags present on
// the command line become overrides, so unset flags never mask file or
// environment settings.
func parseFlags(args []string) (*FlagConfig, error) {
	fs := flag.NewFlagSet("pathfinder", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var (
		configFile  = fs.String("config", "", "Config file path")
		showVersion = fs.Bool("version", false, "Show version information")
		quiet       = fs.Bool("quiet", false, "Suppress all console output")

		file       = fs.String("file", "", "Log file to replay")
		port       = fs.Int64("port", 0, "TCP port to serve the replay on")
		host       = fs.String("host", "", "Interface to listen on")
		timeScale  = fs.Float64("time", 1, "Time scaling divisor")
		debug      = fs.Bool("debug", false, "Verbose diagnostics")
		flushFinal = fs.Bool("flush-final", false, "Deliver the trailing batch")
		rate       = fs.Float64("rate", 0, "Maximum entries per second")
		formatType = fs.String("format", "", "Wire format: json, raw")

		logLevel  = fs.String("log-level", "", "Log level: debug, info, warn, error")
		logOutput = fs.String("log-output", "", "Log output: file, stdout, stderr, both, none")
	)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, fmt.Errorf("%w\n\nRun 'pathfinder help' for usage", err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	values := map[string]any{
		"file":        *file,
		"port":        *port,
		"host":        *host,
		"time":        *timeScale,
		"debug":       *debug,
		"flush-final": *flushFinal,
		"rate":        *rate,
		"format":      strings.ToLower(*formatType),
		"log-level":   *logLevel,
		"log-output":  *logOutput,
		"quiet":       *quiet,
	}

	cfg := &FlagConfig{
		ConfigFile:  *configFile,
		ShowVersion: *showVersion,
		Quiet:       *quiet,
		Overrides:   make(map[string]any),
	}
	fs.Visit(func(f *flag.Flag) {
		if path, ok := flagPaths[f.Name]; ok {
			cfg.Overrides[path] = values[f.Name]
		}
	})

	if err := validateFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateFlags rejects values that would only fail later in config validation
// with a less specific message.
func validateFlags(cfg *FlagConfig) error {
	if v, ok := cfg.Overrides["logging.output"].(string); ok {
		validOutputs := map[string]bool{
			"file": true, "stdout": true, "stderr": true,
			"both": true, "none": true,
		}
		if !validOutputs[v] {
			return fmt.Errorf("invalid log-output: %s (valid: file, stdout, stderr, both, none)", v)
		}
	}

	if v, ok := cfg.Overrides["logging.level"].(string); ok {
		if _, err := parseLogLevel(v); err != nil {
			return fmt.Errorf("invalid log-level: %s (valid: debug, info, warn, error)", v)
		}
	}

	if v, ok := cfg.Overrides["playback.time_scale"].(float64); ok && v <= 0 {
		return fmt.Errorf("invalid time: %v (must be greater than 0)", v)
	}

	if v, ok := cfg.Overrides["sink.tcp.port"].(int64); ok && (v < 0 || v > 65535) {
		return fmt.Errorf("invalid port: %d (valid: 0-65535)", v)
	}

	return nil
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
