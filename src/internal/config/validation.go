// FILE: pathfinder/src/internal/config/validation.go
package config

import (
	"fmt"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// validateConfig is the centralized validator for the entire configuration
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := lconfig.NonEmpty(cfg.File); err != nil {
		return fmt.Errorf("no input file specified (use --file)")
	}

	if err := validatePlayback(&cfg.Playback); err != nil {
		return fmt.Errorf("playback config: %w", err)
	}

	if err := validateParser(&cfg.Parser); err != nil {
		return fmt.Errorf("parser config: %w", err)
	}

	if err := validateSink(&cfg.Sink); err != nil {
		return fmt.Errorf("sink config: %w", err)
	}

	if err := validateLogConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func validatePlayback(cfg *PlaybackConfig) error {
	if cfg.TimeScale <= 0 {
		return fmt.Errorf("time scale must be positive: %v", cfg.TimeScale)
	}

	if cfg.RateLimit.Rate < 0 {
		return fmt.Errorf("rate limit rate cannot be negative")
	}

	if cfg.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit burst cannot be negative")
	}

	return nil
}

func validateParser(cfg *ParserConfig) error {
	if err := lconfig.NonEmpty(cfg.TimestampField); err != nil {
		return fmt.Errorf("missing timestamp field name")
	}
	if err := lconfig.NonEmpty(cfg.HostField); err != nil {
		return fmt.Errorf("missing host field name")
	}
	return nil
}

func validateSink(cfg *SinkConfig) error {
	switch cfg.Type {
	case "tcp":
		if err := lconfig.Port(cfg.TCP.Port); err != nil {
			return fmt.Errorf("tcp: %w", err)
		}
		if cfg.TCP.Host != "" {
			if err := lconfig.IPAddress(cfg.TCP.Host); err != nil {
				return fmt.Errorf("tcp: %w", err)
			}
		}
		if cfg.TCP.WriteTimeoutMS < 0 {
			return fmt.Errorf("tcp: write timeout cannot be negative")
		}
	case "console":
		switch cfg.Console.Target {
		case "stdout", "stderr":
		default:
			return fmt.Errorf("invalid console target: %s", cfg.Console.Target)
		}
	default:
		return fmt.Errorf("unknown sink type '%s' (must be 'tcp' or 'console')", cfg.Type)
	}

	switch cfg.Format.Type {
	case "json", "raw":
	default:
		return fmt.Errorf("unknown format '%s' (must be 'json' or 'raw')", cfg.Format.Type)
	}

	if err := lconfig.NonEmpty(cfg.Format.Separator); err != nil {
		return fmt.Errorf("newline separator cannot be empty")
	}
	if strings.ContainsAny(cfg.Format.Separator, "\r\n") {
		return fmt.Errorf("newline separator cannot contain line breaks")
	}

	return nil
}

func validateLogConfig(cfg *LogConfig) error {
	validOutputs := map[string]bool{
		"file": true, "stdout": true, "stderr": true,
		"both": true, "none": true,
	}
	if !validOutputs[cfg.Output] {
		return fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	validTargets := map[string]bool{
		"stdout": true, "stderr": true, "split": true,
	}
	if !validTargets[cfg.Console.Target] {
		return fmt.Errorf("invalid console target: %s", cfg.Console.Target)
	}

	validFormats := map[string]bool{
		"txt": true, "json": true, "": true,
	}
	if !validFormats[cfg.Console.Format] {
		return fmt.Errorf("invalid console format: %s", cfg.Console.Format)
	}

	return nil
}
