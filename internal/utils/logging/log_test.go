package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytdlnis/internal/utils/logging"
)

// TestDebugLevelGating checks debug output respects the configured level ------------------------------------------------------
func TestDebugLevelGating(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.Level = 0 })

	logging.Level = 1
	logging.D(2, "hidden %d", 2)
	if buf.Len() != 0 {
		t.Fatalf("expected no output for level above threshold, got: %q", buf.String())
	}

	logging.D(1, "shown %d", 1)
	if !strings.Contains(buf.String(), "shown 1") {
		t.Fatalf("expected debug line, got: %q", buf.String())
	}
}

// TestErrorCallerInfo checks errors carry the calling file ---------------------------------------------------------------------
func TestErrorCallerInfo(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)

	logging.E("failed doing %s", "things")

	out := buf.String()
	if !strings.Contains(out, "failed doing things") {
		t.Fatalf("expected message in output, got: %q", out)
	}
	if !strings.Contains(out, "log_test.go") {
		t.Fatalf("expected caller file in output, got: %q", out)
	}
}

// TestCloseFallsBackToConsole checks logging after Close reaches the console and not the closed file ---------------------------
func TestCloseFallsBackToConsole(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "ytdlnis.log")

	if err := logging.SetupLogging(logFile, &buf, true); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	logging.I("before close")
	if err := logging.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	logging.I("after close")

	b, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(b), "before close") || strings.Contains(string(b), "after close") {
		t.Fatalf("unexpected log file contents: %q", b)
	}
	if !strings.Contains(buf.String(), "after close") {
		t.Fatalf("expected console output after close, got: %q", buf.String())
	}
}
