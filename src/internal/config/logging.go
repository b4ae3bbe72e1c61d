// FILE: pathfinder/src/internal/config/logging.go
package config

// LogConfig represents logging configuration for the application's own logs
type LogConfig struct {
	// Output mode: "file", "stdout", "stderr", "both", "none"
	Output string `toml:"output"`

	// Log level: "debug", "info", "warn", "error"
	Level string `toml:"level"`

	// File output settings (when Output includes "file" or "both")
	File LogFileConfig `toml:"file"`

	// Console output settings
	Console LogConsoleConfig `toml:"console"`
}

type LogFileConfig struct {
	// Directory for log files
	Directory string `toml:"directory"`

	// Base name for log files
	Name string `toml:"name"`

	// Maximum size per log file in MB
	MaxSizeMB int64 `toml:"max_size_mb"`

	// Maximum total size of all logs in MB
	MaxTotalSizeMB int64 `toml:"max_total_size_mb"`
}

type LogConsoleConfig struct {
	// Target for console output: "stdout", "stderr", "split"
	Target string `toml:"target"`

	// Format: "txt" or "json"
	Format string `toml:"format"`
}

// DefaultLogConfig returns logging defaults
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Output: "stderr",
		Level:  "info",
		File: LogFileConfig{
			Directory:      "./log",
			Name:           "pathfinder",
			MaxSizeMB:      100,
			MaxTotalSizeMB: 1000,
		},
		Console: LogConsoleConfig{
			Target: "stderr",
			Format: "txt",
		},
	}
}
