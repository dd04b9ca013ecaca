// Package main is the entrypoint of ytdlnis.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ytdlnis/internal/cfg"
	"ytdlnis/internal/domain/paths"
	"ytdlnis/internal/utils/logging"
)

// init runs before the program begins.
func init() {
	if err := paths.InitProgFilesDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "ytdlnis exiting with error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	os.Exit(run())
}

// run executes the command line and returns the exit code.
func run() int {
	startTime := time.Now()

	if err := logging.SetupLogging(paths.LogFilePath, os.Stderr, false); err != nil {
		fmt.Fprintf(os.Stderr, "could not set up logging, proceeding without: %v\n", err)
	}

	// Cancellable context for shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer cancel()
	defer cleanup(startTime)

	if err := cfg.InitCommands(ctx); err != nil {
		logging.E("Error initializing commands: %v", err)
		return 1
	}

	if err := cfg.Execute(ctx); err != nil {
		logging.E("Error: %v", err)
		return 1
	}
	return 0
}
