// FILE: pathfinder/src/internal/config/config.go
package config

// Config is the complete runtime configuration of a playback run.
type Config struct {
	// Log file to replay, "-" reads stdin
	File string `toml:"file"`

	// Verbose diagnostics: parsed entries and computed sleeps
	Debug bool `toml:"debug"`

	// Suppress all console output
	Quiet bool `toml:"quiet"`

	DisableStatusReporter bool `toml:"disable_status_reporter"`

	Playback PlaybackConfig `toml:"playback"`
	Parser   ParserConfig   `toml:"parser"`
	Sink     SinkConfig     `toml:"sink"`
	Logging  LogConfig      `toml:"logging"`
}

// PlaybackConfig controls pacing of the replay.
type PlaybackConfig struct {
	// Divisor applied to original timestamp deltas. >1 is faster than real time
	TimeScale float64 `toml:"time_scale"`

	// Deliver the trailing batch at end of input instead of dropping it
	FlushFinal bool `toml:"flush_final"`

	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig caps the number of sends per second. Rate 0 disables it.
type RateLimitConfig struct {
	Rate  float64 `toml:"rate"`
	Burst int64   `toml:"burst"`
}

// ParserConfig names the record fields the entry parser reads.
type ParserConfig struct {
	TimestampField string `toml:"timestamp_field"`
	HostField      string `toml:"host_field"`
}

// SinkConfig selects and configures the playback destination.
type SinkConfig struct {
	// Sink type: "tcp" or "console"
	Type string `toml:"type"`

	Format  FormatConfig       `toml:"format"`
	TCP     TCPSinkOptions     `toml:"tcp"`
	Console ConsoleSinkOptions `toml:"console"`
}

// FormatConfig controls how entries are encoded on the wire.
type FormatConfig struct {
	// Formatter type: "json" or "raw"
	Type string `toml:"type"`

	// Token substituted for literal newlines in entry bodies
	Separator string `toml:"separator"`

	// Host name used when an entry carries none
	DefaultHost string `toml:"default_host"`
}

// TCPSinkOptions configures the single-client listener.
type TCPSinkOptions struct {
	Host           string `toml:"host"`
	Port           int64  `toml:"port"`
	WriteTimeoutMS int64  `toml:"write_timeout_ms"`
}

// ConsoleSinkOptions configures the print-only sink.
type ConsoleSinkOptions struct {
	// Target stream: "stdout" or "stderr"
	Target string `toml:"target"`
}
