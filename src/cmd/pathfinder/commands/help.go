// FILE: pathfinder/src/cmd/pathfinder/commands/help.go
package commands

import (
	"fmt"
	"sort"
	"strings"
)

// generalHelpTemplate is the default help message shown when no specific command is requested.
const generalHelpTemplate = `pathfinder: replay a timestamped log file over TCP with its original timing.

Usage:
  pathfinder --file <path> [options]
  pathfinder <command> [options]

Commands:
%s

Playback Options:
  --file <path>        Log file to replay, "-" for stdin (required)
  --port <int>         TCP port to serve the replay on; 0 prints instead (default: 1984)
  --host <addr>        Interface to listen on (default: 0.0.0.0)
  --time <float>       Time scaling divisor, >1 plays faster (default: 1)
  --debug              Verbose diagnostics: parsed entries and sleeps
  --flush-final        Deliver the trailing batch at end of input
  --rate <float>       Maximum entries sent per second (default: unlimited)
  --format <name>      Wire format: json, raw (default: json)

Application Options:
  --config <path>      Path to configuration file
  --log-level <level>  Log level: debug, info, warn, error
  --log-output <mode>  Log output: file, stdout, stderr, both, none
  --quiet              Suppress all console output
  --version            Display version information and exit
  -h, --help           Display this help message and exit

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  - CLI flags override all other settings
  - PATHFINDER_* environment variables override file settings
  - TOML configuration file (PATHFINDER_CONFIG_FILE, PATHFINDER_CONFIG_DIR)

Environment Variables:
  PATHFINDER_DISABLE_STATUS_REPORTER  Disable periodic status reports (set to 1)

Examples:
  # Replay at real-time speed to the first client on port 1984
  pathfinder --file /var/log/app.log

  # Replay ten times faster, printing payloads instead of serving them
  pathfinder --file app.log --port 0 --time 10
`

// GeneralHelp returns the general help text with the command list filled in.
func GeneralHelp(router *CommandRouter) string {
	return fmt.Sprintf(generalHelpTemplate, formatCommandList(router))
}

// HelpCommand handles the display of general or command-specific help messages.
type HelpCommand struct {
	router *CommandRouter
}

// NewHelpCommand creates a new help command handler.
func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

// Execute displays the appropriate help message based on the provided arguments.
func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Print(handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Print(GeneralHelp(c.router))
	return nil
}

// Description returns a brief one-line description of the command.
func (c *HelpCommand) Description() string {
	return "Display help information"
}

// Help returns the detailed help text for the 'help' command itself.
func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  pathfinder help              Show general help
  pathfinder help <command>    Show help for a specific command
`
}

// formatCommandList creates a formatted and aligned list of all available commands.
func formatCommandList(router *CommandRouter) string {
	commands := router.GetCommands()

	names := make([]string, 0, len(commands))
	maxLen := 0
	for name := range commands {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		handler := commands[name]
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, handler.Description()))
	}

	return strings.Join(lines, "\n")
}
