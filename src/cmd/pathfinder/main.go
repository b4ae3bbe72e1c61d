// FILE: pathfinder/src/cmd/pathfinder/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pathfinder/src/cmd/pathfinder/commands"
	"pathfinder/src/internal/config"
	"pathfinder/src/internal/playback"
	"pathfinder/src/internal/version"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	router := commands.NewCommandRouter()

	handled, err := router.Route(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if handled {
		os.Exit(0)
	}

	flagCfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		fmt.Print(commands.GeneralHelp(router))
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	InitOutputHandler(flagCfg.Quiet)

	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg, err := config.Load(flagCfg.ConfigFile, flagCfg.Overrides)
	if err != nil {
		FatalError(1, "Failed to load config: %v\n", err)
	}
	// Quiet may also come from the file or environment
	output.SetQuiet(cfg.Quiet)

	if err := initializeLogger(cfg); err != nil {
		FatalError(1, "Failed to initialize logger: %v\n", err)
	}

	code := run(cfg)
	shutdownLogger()
	os.Exit(code)
}

// run performs one playback and returns the process exit code.
func run(cfg *config.Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("msg", "Pathfinder starting",
		"component", "main",
		"version", version.Short(),
		"file", cfg.File,
		"sink", cfg.Sink.Type,
		"time_scale", cfg.Playback.TimeScale)

	p, err := bootstrapPlayer(ctx, cfg, logger)
	if err != nil {
		var setupErr *setupError
		switch {
		case errors.Is(err, context.Canceled):
			logger.Info("msg", "Interrupted before playback started", "component", "main")
			printSummary(playback.Summary{})
			return 0
		case errors.As(err, &setupErr):
			logger.Error("msg", "Failed to set up sink",
				"component", "main",
				"error", setupErr.err)
			return 1
		default:
			logger.Error("msg", "Failed to start playback",
				"component", "main",
				"file", cfg.File,
				"error", err)
			Error("Error: %v\n", err)
			return 1
		}
	}
	defer p.Close()

	if enableStatusReporter(cfg) {
		go statusReporter(ctx, p, statusInterval)
	}

	summary, err := p.Run(ctx)

	printSummary(summary)

	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		logger.Info("msg", "Playback interrupted", "component", "main")
		return 0
	default:
		logger.Error("msg", "Playback failed",
			"component", "main",
			"error", err)
		return 1
	}
}

func printSummary(summary playback.Summary) {
	Print("shipped %d valid entries\n", summary.Shipped)
	Print("found %d bad entries\n", summary.Malformed)
}
