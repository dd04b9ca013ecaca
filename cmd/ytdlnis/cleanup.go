package main

import (
	"time"

	"ytdlnis/internal/cfg"
	"ytdlnis/internal/utils/logging"
)

// cleanup closes the database and log file.
func cleanup(startTime time.Time) {
	if err := cfg.Close(); err != nil {
		logging.E("Failed to close database: %v", err)
	}

	logging.D(1, "ytdlnis finished in %v", time.Since(startTime).Round(time.Millisecond))
	if err := logging.Close(); err != nil {
		logging.E("Failed to close log file: %v", err)
	}
}
