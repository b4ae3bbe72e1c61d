// FILE: pathfinder/src/internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pathfinder/src/internal/core"

	lconfig "github.com/lixenwraith/config"
)

const envPrefix = "PATHFINDER_"

func defaults() *Config {
	return &Config{
		Playback: PlaybackConfig{
			TimeScale: 1,
		},
		Parser: ParserConfig{
			TimestampField: core.TimestampField,
			HostField:      core.HostField,
		},
		Sink: SinkConfig{
			Type: "tcp",
			Format: FormatConfig{
				Type:        "json",
				Separator:   core.NewlineSeparator,
				DefaultHost: core.DefaultHost,
			},
			TCP: TCPSinkOptions{
				Host:           "0.0.0.0",
				Port:           core.DefaultPort,
				WriteTimeoutMS: 30000,
			},
			Console: ConsoleSinkOptions{
				Target: "stdout",
			},
		},
		Logging: DefaultLogConfig(),
	}
}

// Defaults returns a fresh copy of the built-in configuration.
func Defaults() *Config {
	return defaults()
}

// Load builds the configuration from defaults, the TOML file and PATHFINDER_*
// environment variables, then applies overrides keyed by config path
// (e.g. "sink.tcp.port"). Overrides take precedence over every other source.
func Load(configPath string, overrides map[string]any) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = GetConfigPath()
	}

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix(envPrefix).
		WithFile(configPath).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if explicit || !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cfg == nil {
		return nil, fmt.Errorf("failed to load config from %s", configPath)
	}

	// Apply in a stable order so failures are reproducible
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cfg.Set(k, overrides[k])
	}

	finalConfig := &Config{}
	if err := cfg.Scan("", finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	finalConfig.normalize()
	return finalConfig, validateConfig(finalConfig)
}

// normalize resolves settings that depend on each other.
func (c *Config) normalize() {
	// A zero port means there is nothing to listen on: print instead
	if c.Sink.Type == "tcp" && c.Sink.TCP.Port == 0 {
		c.Sink.Type = "console"
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
	if c.Debug {
		c.Logging.Level = "debug"
	}
	c.Sink.Type = strings.ToLower(c.Sink.Type)
	c.Sink.Format.Type = strings.ToLower(c.Sink.Format.Type)
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = envPrefix + env
	return env
}

// GetConfigPath resolves the config file location from the environment.
func GetConfigPath() string {
	if configFile := os.Getenv("PATHFINDER_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("PATHFINDER_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("PATHFINDER_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "pathfinder.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "pathfinder.toml")
	}

	return "pathfinder.toml"
}
