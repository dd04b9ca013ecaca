//go:build unix

package execute_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ytdlnis/internal/command/execute"
	"ytdlnis/internal/domain/errs"
)

// writeScript writes an executable shell script standing in for yt-dlp.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-ytdlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

// TestRunCapturesOutputPaths checks printed absolute paths are collected ------------------------------------------------
func TestRunCapturesOutputPaths(t *testing.T) {
	bin := writeScript(t, "echo '[download] 100%'\necho /music/song.opus\necho 'WARNING: x' >&2\n")

	res, err := execute.Run(context.Background(), bin, []string{"-x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.OutputPaths) != 1 || res.OutputPaths[0] != "/music/song.opus" {
		t.Fatalf("unexpected output paths %v", res.OutputPaths)
	}
	if len(res.LastLines) != 3 {
		t.Fatalf("expected 3 captured lines, got %v", res.LastLines)
	}
}

// TestRunFailure checks a non-zero exit is reported -----------------------------------------------------------------------
func TestRunFailure(t *testing.T) {
	bin := writeScript(t, "echo 'ERROR: unavailable' >&2\nexit 1\n")

	res, err := execute.Run(context.Background(), bin, nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if len(res.LastLines) != 1 || res.LastLines[0] != "ERROR: unavailable" {
		t.Fatalf("expected error line captured, got %v", res.LastLines)
	}
}

// TestRunMissingBinary checks the not-found sentinel ----------------------------------------------------------------------
func TestRunMissingBinary(t *testing.T) {
	_, err := execute.Run(context.Background(), filepath.Join(t.TempDir(), "nope"), nil)
	if !errors.Is(err, errs.ErrYtdlpNotFound) {
		t.Fatalf("expected ErrYtdlpNotFound, got %v", err)
	}
}
