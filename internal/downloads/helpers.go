package downloads

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"ytdlnis/internal/utils/logging"
)

var botPhrases = []string{
	"confirm you’re not a bot",
	"confirm you're not a bot",
	"not a robot",
	"sign in to confirm",
}

// verifyOutputs checks each reported file exists and is not empty.
func verifyOutputs(paths []string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("output file verification failed: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("output path %q is a directory", p)
		}
		if info.Size() == 0 {
			return fmt.Errorf("output file is empty: %s", p)
		}
	}
	return nil
}

// checkBotDetection logs a cookie hint when yt-dlp reports bot checks.
func checkBotDetection(uri string, lines []string) bool {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, phrase := range botPhrases {
			if strings.Contains(lower, phrase) {
				logging.W("Site flagged %q as bot traffic, import fresh cookies for it and retry", uri)
				return true
			}
		}
	}
	return false
}

// waitJitter sleeps a random duration below limit, returning early if ctx is cancelled.
func waitJitter(ctx context.Context, limit time.Duration) error {
	if limit <= 0 {
		return nil
	}

	d := time.Duration(rand.Int63n(int64(limit)))
	logging.I("Waiting %v before the next download", d.Round(time.Second))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
