// FILE: pathfinder/src/cmd/pathfinder/commands/router.go
package commands

import (
	"fmt"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// CommandRouter routes CLI arguments to the matching subcommand handler.
type CommandRouter struct {
	commands map[string]Handler
}

// NewCommandRouter creates and initializes the command router with all available commands.
func NewCommandRouter() *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
	}

	router.commands["version"] = NewVersionCommand()
	router.commands["config"] = NewConfigCommand()
	router.commands["help"] = NewHelpCommand(router)

	return router
}

// Route executes a subcommand if args name one. It reports false when the
// arguments are meant for the playback run itself.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil
	}

	cmdName := args[1]
	if cmdName == "" || cmdName[0] == '-' {
		// Flags belong to the playback run
		return false, nil
	}

	handler, exists := r.commands[cmdName]
	if !exists {
		return false, fmt.Errorf("unknown command: %s\n\nRun 'pathfinder help' for usage", cmdName)
	}

	for _, arg := range args[2:] {
		if arg == "-h" || arg == "--help" {
			fmt.Print(handler.Help())
			return true, nil
		}
	}

	return true, handler.Execute(args[2:])
}

// GetCommand returns a specific command handler by its name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommands returns a map of all registered commands.
func (r *CommandRouter) GetCommands() map[string]Handler {
	return r.commands
}
