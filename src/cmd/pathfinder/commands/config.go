// FILE: pathfinder/src/cmd/pathfinder/commands/config.go
package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"pathfinder/src/internal/config"
)

// ConfigCommand writes a configuration file populated with defaults.
type ConfigCommand struct {
	output io.Writer
}

// NewConfigCommand creates a new config command
func NewConfigCommand() *ConfigCommand {
	return &ConfigCommand{output: os.Stdout}
}

func (c *ConfigCommand) Execute(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("o", "pathfinder.toml", "Output file")
	force := fs.Bool("force", false, "Overwrite an existing file")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid config arguments: %w", err)
	}

	if _, err := os.Stat(*path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", *path)
	}

	if err := config.Defaults().SaveToFile(*path); err != nil {
		return err
	}

	fmt.Fprintf(c.output, "Default configuration written to %s\n", *path)
	return nil
}

func (c *ConfigCommand) Description() string {
	return "Write a default configuration file"
}

func (c *ConfigCommand) Help() string {
	return `Config Command - Write a default configuration file

Usage:
  pathfinder config [-o <path>] [--force]

Options:
  -o <path>    Output file (default: pathfinder.toml)
  --force      Overwrite an existing file
`
}
