// FILE: pathfinder/src/cmd/pathfinder/flags_test.go
package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		overrides map[string]any
	}{
		{
			name:      "no flags",
			args:      nil,
			overrides: map[string]any{},
		},
		{
			name: "playback flags",
			args: []string{"--file", "app.log", "--port", "9000", "--time", "2.5", "--debug"},
			overrides: map[string]any{
				"file":                "app.log",
				"sink.tcp.port":       int64(9000),
				"playback.time_scale": 2.5,
				"debug":               true,
			},
		},
		{
			name: "port zero is kept",
			args: []string{"-file=-", "-port=0"},
			overrides: map[string]any{
				"file":          "-",
				"sink.tcp.port": int64(0),
			},
		},
		{
			name: "supplementary flags",
			args: []string{"--host", "127.0.0.1", "--flush-final", "--rate", "50", "--format", "RAW"},
			overrides: map[string]any{
				"sink.tcp.host":            "127.0.0.1",
				"playback.flush_final":     true,
				"playback.rate_limit.rate": 50.0,
				"sink.format.type":         "raw",
			},
		},
		{
			name: "logging flags",
			args: []string{"--log-level", "warn", "--log-output", "none", "--quiet"},
			overrides: map[string]any{
				"logging.level":  "warn",
				"logging.output": "none",
				"quiet":          true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.overrides, cfg.Overrides)
		})
	}
}

func TestParseFlagsGeneral(t *testing.T) {
	cfg, err := parseFlags([]string{"--config", "/etc/pathfinder.toml", "--version", "--quiet"})
	require.NoError(t, err)

	assert.Equal(t, "/etc/pathfinder.toml", cfg.ConfigFile)
	assert.True(t, cfg.ShowVersion)
	assert.True(t, cfg.Quiet)
	assert.NotContains(t, cfg.Overrides, "config", "config path is not a config override")
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--nope"}, "flag provided but not defined"},
		{"bad port value", []string{"--port", "abc"}, "invalid value"},
		{"port out of range", []string{"--port", "70000"}, "invalid port"},
		{"negative port", []string{"--port", "-1"}, "invalid port"},
		{"zero time scale", []string{"--time", "0"}, "invalid time"},
		{"negative time scale", []string{"--time", "-2"}, "invalid time"},
		{"bad log level", []string{"--log-level", "loud"}, "invalid log-level"},
		{"bad log output", []string{"--log-output", "syslog"}, "invalid log-output"},
		{"positional argument", []string{"--file", "a.log", "extra"}, "unexpected argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	_, err := parseFlags([]string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestParseLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "warning", "error"} {
		_, err := parseLogLevel(level)
		assert.NoError(t, err, level)
	}

	_, err := parseLogLevel("trace")
	assert.Error(t, err)
}
